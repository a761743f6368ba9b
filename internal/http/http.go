package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"masthead/internal/http/middleware"
	"masthead/internal/logging"
	"masthead/resources"
)

var reservedPaths = map[string]bool{
	"/static": true, "/categories": true, "/search": true, "/header": true,
	"/signin": true, "/signout": true, "/metrics": true, "/healthz": true, "/readyz": true,
}

func NewMux(site *Site) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(resources.FS)))

	mux.Handle("GET /{$}", &HomeHandler{Site: site})
	for _, ch := range site.Nav.Channels {
		if reservedPaths[ch.Path] {
			return nil, fmt.Errorf("channel path %q collides with a built-in route", ch.Path)
		}
		h := http.Handler(&SectionHandler{Site: site, Channel: ch})
		if ch.Path == "/bookmarks" {
			h = middleware.RequireAuth(h)
		}
		mux.Handle("GET "+ch.Path, h)
		mux.Handle("GET "+ch.Path+"/", h)
	}
	mux.Handle("GET /categories/{id}", &CategoryHandler{Site: site})
	mux.Handle("GET /search", &SearchHandler{Site: site})
	mux.Handle("GET /", &NotFoundHandler{Site: site})

	mux.Handle("POST "+headerActionPath, &HeaderActionHandler{Site: site})

	ah := &AuthHandler{Site: site, LoginLimiter: middleware.NewRateLimiter(10, time.Minute)}
	ah.Routes(mux)

	if site.Metrics != nil {
		mux.Handle("GET /metrics", site.Metrics.Handler())
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux, nil
}

// WithStandardMiddleware wraps the mux. Metrics sits right around the mux so
// it sees the matched pattern.
func WithStandardMiddleware(site *Site, mux http.Handler) http.Handler {
	h := site.Metrics.Middleware(mux)
	h = middleware.WithAuth(h)
	if site.Sessions != nil {
		h = site.Sessions.Middleware(h)
	}
	return requestLogger(site.Logger, securityHeaders(h))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(base *slog.Logger, next http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := base.With("request_id", uuid.NewString())
		ww := &wrapWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), l)))
		l.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type wrapWriter struct {
	http.ResponseWriter
	status int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
