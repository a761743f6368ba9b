package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const CookieName = "masthead_vid"

type ctxKey struct{}

// Manager hands every visitor a signed, random id used to key their header state.
type Manager struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

// NewManager builds a manager. hashKey must be at least 32 bytes; blockKey
// may be empty (signed only) or 16, 24 or 32 bytes (signed and encrypted).
func NewManager(hashKey, blockKey []byte, maxAge time.Duration, secure bool) (*Manager, error) {
	if len(hashKey) < 32 {
		return nil, errors.New("session: hash key must be at least 32 bytes")
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(maxAge.Seconds()))
	return &Manager{codec: codec, maxAge: maxAge, secure: secure}, nil
}

// Middleware makes sure the request carries a visitor id, issuing a new
// cookie when the existing one is missing or fails verification.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.read(r)
		if !ok {
			id = uuid.NewString()
			if err := m.write(w, id); err != nil {
				http.Error(w, "session error", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithVisitorID(r.Context(), id)))
	})
}

func (m *Manager) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := m.codec.Decode(CookieName, c.Value, &id); err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (m *Manager) write(w http.ResponseWriter, id string) error {
	encoded, err := m.codec.Encode(CookieName, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// VisitorID returns the id set by Middleware, or "" outside of it.
func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
