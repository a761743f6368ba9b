package middleware

import (
	"context"
	"net/http"
	"net/url"

	"masthead/internal/auth"
)

type ctxKey string

const CtxAccountID ctxKey = "account_id"

// WithAuth puts the signed-in reader's account id in the request context.
// A missing or invalid cookie leaves the request anonymous.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		if id, err := auth.ParseToken(c.Value); err == nil {
			ctx := context.WithValue(r.Context(), CtxAccountID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if AccountID(r) != "" {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/signin?return="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	})
}

func AccountID(r *http.Request) string {
	if v, ok := r.Context().Value(CtxAccountID).(string); ok {
		return v
	}
	return ""
}
