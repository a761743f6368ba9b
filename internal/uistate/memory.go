package uistate

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// Memory keeps records in process. Expired entries are dropped lazily.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Load(_ context.Context, visitorID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[visitorID]
	if !ok {
		return Record{}, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, visitorID)
		return Record{}, nil
	}
	return e.rec, nil
}

func (m *Memory) Save(_ context.Context, visitorID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(visitorID, rec)
	return nil
}

// Update holds the lock while fn runs.
func (m *Memory) Update(_ context.Context, visitorID string, fn func(Record) Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cur Record
	if e, ok := m.entries[visitorID]; ok && !m.now().After(e.expires) {
		cur = e.rec
	}
	next := fn(cur)
	m.put(visitorID, next)
	return next, nil
}

// put stores rec; m.mu must be held.
func (m *Memory) put(visitorID string, rec Record) {
	now := m.now()
	m.entries[visitorID] = memoryEntry{rec: rec, expires: now.Add(m.ttl)}

	if len(m.entries) > 10000 {
		for k, v := range m.entries {
			if now.After(v.expires) {
				delete(m.entries, k)
			}
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
