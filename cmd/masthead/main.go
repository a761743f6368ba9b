package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"masthead/internal/accounts"
	"masthead/internal/auth"
	"masthead/internal/config"
	"masthead/internal/db"
	"masthead/internal/dbinit"
	apphttp "masthead/internal/http"
	"masthead/internal/logging"
	"masthead/internal/metrics"
	"masthead/internal/session"
	"masthead/internal/uistate"
	"masthead/internal/web"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil && cfg == nil {
		panic(err)
	}

	l := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(l)

	if err != nil {
		slog.Warn("config.missing", "path", *cfgPath, "err", err)
	}
	if verr := cfg.Validate(); verr != nil {
		slog.Error("config.invalid", "err", verr)
		os.Exit(1)
	}
	if cfg.UsesDevSecrets() {
		slog.Warn("config.dev_secrets", "msg", "security secrets are the built-in defaults; do not run like this in production")
	}

	auth.SetSecret(cfg.Security.JWTSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store, closeStore := openAccounts(ctx, cfg)
	defer closeStore()

	states, closeStates := openStates(ctx, cfg)
	defer closeStates()

	var blockKey []byte
	if cfg.Security.SessionBlockKey != "" {
		blockKey = []byte(cfg.Security.SessionBlockKey)
	}
	sessions, err := session.NewManager([]byte(cfg.Security.SessionHashKey), blockKey, 365*24*time.Hour, cfg.HTTP.SecureCookies)
	if err != nil {
		slog.Error("session.init", "err", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	tpl, err := web.NewRenderer()
	if err != nil {
		slog.Error("templates.parse", "err", err)
		os.Exit(1)
	}

	site := &apphttp.Site{
		Header:        cfg.Header,
		Nav:           cfg.Header.Nav(),
		TPL:           tpl,
		Accounts:      store,
		States:        states,
		Sessions:      sessions,
		Metrics:       m,
		Logger:        l,
		SecureCookies: cfg.HTTP.SecureCookies,
	}
	mux, err := apphttp.NewMux(site)
	if err != nil {
		slog.Error("http.routes", "err", err)
		os.Exit(1)
	}
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      apphttp.WithStandardMiddleware(site, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http.starting", "addr", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http.listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	slog.Info("http.shutting_down")
	_ = srv.Shutdown(shutdownCtx)
	slog.Info("http.stopped")
}

// openAccounts connects to Postgres when a database is configured and keeps
// reader accounts in memory otherwise.
func openAccounts(ctx context.Context, cfg *config.Config) (accounts.Store, func()) {
	if !cfg.Database.Enabled() {
		slog.Warn("accounts.memory", "msg", "no database configured; accounts are lost on restart")
		return accounts.NewMemory(), func() {}
	}

	if cfg.Database.Migrate {
		adminURL, err := cfg.Database.AdminURL()
		if err != nil {
			slog.Error("db.url", "err", err)
			os.Exit(1)
		}
		if err := dbinit.EnsureDatabaseAndMigrate(ctx, adminURL, cfg.Database.Name, cfg.Database.User); err != nil {
			slog.Error("db.init", "err", err)
			os.Exit(1)
		}
		slog.Info("db.migrated", "database", cfg.Database.Name)
	}

	appURL, err := cfg.Database.AppURL()
	if err != nil {
		slog.Error("db.url", "err", err)
		os.Exit(1)
	}
	pool, err := db.NewPool(ctx, appURL, db.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		slog.Error("db.pool", "err", err)
		os.Exit(1)
	}
	return accounts.NewPostgres(pool), pool.Close
}

func openStates(ctx context.Context, cfg *config.Config) (uistate.Store, func()) {
	if cfg.Redis.Addr == "" {
		return uistate.NewMemory(cfg.Redis.StateTTL), func() {}
	}
	r, err := uistate.NewRedis(ctx, uistate.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
		TTL:      cfg.Redis.StateTTL,
		Logger:   slog.Default(),
	})
	if err != nil {
		slog.Error("redis.connect", "addr", cfg.Redis.Addr, "err", err)
		os.Exit(1)
	}
	return r, func() { _ = r.Close() }
}
