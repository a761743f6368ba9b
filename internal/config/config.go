package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"masthead/internal/header"
)

type Config struct {
	BaseURL string `yaml:"base_url"`

	HTTP struct {
		Address       string `yaml:"address"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"http"`

	Database DatabaseConfig `yaml:"database"`

	Redis RedisConfig `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
		Format string `yaml:"format"` // "text" | "json"
	} `yaml:"logging"`

	Security struct {
		JWTSecret       string `yaml:"jwt_secret"`
		SessionHashKey  string `yaml:"session_hash_key"`
		SessionBlockKey string `yaml:"session_block_key"`
	} `yaml:"security"`

	Metrics struct {
		Enabled   bool   `yaml:"enabled"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`

	Header HeaderConfig `yaml:"header"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"` // e.g. "disable" | "require"
	Migrate  bool   `yaml:"migrate"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig selects the shared header state store. Empty Addr keeps state in memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	StateTTL time.Duration `yaml:"state_ttl"`
}

type HeaderConfig struct {
	Channels   []header.Channel  `yaml:"channels"`
	Categories []header.Category `yaml:"categories"`
	// Theme applies to every page no entry of Themes matches.
	Theme  Theme   `yaml:"theme"`
	Themes []Theme `yaml:"themes"`
}

// Theme is the header look for the pages under Path.
type Theme struct {
	Path      string `yaml:"path"`
	BgColor   string `yaml:"bg_color"`
	FontColor string `yaml:"font_color"`
	LogoColor string `yaml:"logo_color"`
	Position  string `yaml:"position"`
}

const (
	devJWTSecret  = "change-me"
	devSessionKey = "change-me-change-me-change-me-change-me!"
)

func (c *Config) Defaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "masthead"
	}
	if c.Database.Name == "" {
		c.Database.Name = "masthead"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Security.JWTSecret == "" {
		c.Security.JWTSecret = devJWTSecret
	}
	if c.Security.SessionHashKey == "" {
		c.Security.SessionHashKey = devSessionKey
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "masthead"
	}
	if c.Redis.StateTTL == 0 {
		c.Redis.StateTTL = 30 * time.Minute
	}
	c.Header.defaults()
}

func (h *HeaderConfig) defaults() {
	if len(h.Channels) == 0 {
		h.Channels = []header.Channel{
			{Label: "Topics", Path: "/topics"},
			{Label: "Photography", Path: "/photography"},
			{Label: "Bookmarks", Path: "/bookmarks"},
		}
	}
	if len(h.Categories) == 0 {
		h.Categories = []header.Category{
			{ID: "taiwan", Label: "Taiwan"},
			{ID: "international", Label: "International"},
			{ID: "cross-strait", Label: "Cross-Strait"},
			{ID: "human-rights", Label: "Human Rights & Society"},
			{ID: "environment", Label: "Land & Environment"},
			{ID: "politics-economy", Label: "Politics & Economy"},
			{ID: "culture", Label: "Culture"},
			{ID: "education", Label: "Education"},
		}
	}
	if h.Theme.BgColor == "" {
		h.Theme.BgColor = "#f1f1f1"
	}
	if h.Themes == nil {
		h.Themes = []Theme{{
			Path:      "/photography",
			BgColor:   "#08192d",
			FontColor: "#ffffff",
			LogoColor: "bright",
			Position:  "upon",
		}}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Enabled() && c.Database.URL == "" {
		if c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("database.url or database.{host,user,name} must be set"))
		}
	}
	if len(c.Security.SessionHashKey) < 32 {
		errs = append(errs, errors.New("security.session_hash_key must be at least 32 bytes"))
	}
	switch len(c.Security.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		errs = append(errs, errors.New("security.session_block_key must be 16, 24 or 32 bytes"))
	}
	seen := map[string]bool{}
	for _, cat := range c.Header.Categories {
		if cat.ID == "" || strings.Contains(cat.ID, "/") {
			errs = append(errs, fmt.Errorf("header.categories: invalid id %q", cat.ID))
		}
		if seen[cat.ID] {
			errs = append(errs, fmt.Errorf("header.categories: duplicate id %q", cat.ID))
		}
		seen[cat.ID] = true
	}
	for _, ch := range c.Header.Channels {
		if !strings.HasPrefix(ch.Path, "/") || ch.Path == "/" {
			errs = append(errs, fmt.Errorf("header.channels: invalid path %q", ch.Path))
		}
	}
	for _, t := range append([]Theme{c.Header.Theme}, c.Header.Themes...) {
		if _, err := t.Props(); err != nil {
			errs = append(errs, fmt.Errorf("header theme %q: %w", t.Path, err))
		}
	}
	return errors.Join(errs...)
}

// Enabled reports whether an accounts database is configured at all.
func (d *DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// AppURL returns a postgres connection URL for the application DB.
func (d *DatabaseConfig) AppURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", errors.New("database config incomplete: need host, user, name or set url")
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// AdminURL points at the maintenance "postgres" database of the same cluster.
func (d *DatabaseConfig) AdminURL() (string, error) {
	app, err := d.AppURL()
	if err != nil {
		return "", err
	}
	u, err := url.Parse(app)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	u.Path = "/postgres"
	return u.String(), nil
}

// Props returns the header fields a theme controls, filled into a zero Props.
func (t Theme) Props() (header.Props, error) {
	logo, err := header.ParseLogoColor(t.LogoColor)
	if err != nil {
		return header.Props{}, err
	}
	pos, err := header.ParsePosition(t.Position)
	if err != nil {
		return header.Props{}, err
	}
	return header.Props{
		BgColor:   t.BgColor,
		FontColor: t.FontColor,
		LogoColor: logo,
		Position:  pos,
	}, nil
}

// ThemeFor picks the theme with the longest path prefix matching path.
func (h HeaderConfig) ThemeFor(path string) Theme {
	best, bestLen := h.Theme, -1
	for _, t := range h.Themes {
		if t.Path == "" {
			continue
		}
		if path == t.Path || strings.HasPrefix(path, strings.TrimRight(t.Path, "/")+"/") {
			if len(t.Path) > bestLen {
				best, bestLen = t, len(t.Path)
			}
		}
	}
	if best.BgColor == "" {
		best.BgColor = h.Theme.BgColor
	}
	return best
}

// Nav is the navigation catalog handed to the header.
func (h HeaderConfig) Nav() header.Nav {
	return header.Nav{Channels: h.Channels, Categories: h.Categories}
}

// UsesDevSecrets reports whether any security value is still the built-in default.
func (c *Config) UsesDevSecrets() bool {
	return c.Security.JWTSecret == devJWTSecret || c.Security.SessionHashKey == devSessionKey
}
