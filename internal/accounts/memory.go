package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (m *Memory) Create(_ context.Context, email, displayName, passwordHash string) (Account, error) {
	email = NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return Account{}, fmt.Errorf("%q: %w", email, ErrExists)
	}
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[a.ID] = a
	m.byEmail[email] = a.ID
	return a, nil
}

func (m *Memory) ByEmail(_ context.Context, email string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[NormalizeEmail(email)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) ByID(_ context.Context, id string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}
