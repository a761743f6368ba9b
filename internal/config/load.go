package config

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads .env (if present) and the YAML file at path. When the file cannot
// be opened, a Config with defaults is returned together with the error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		var cfg Config
		cfg.ApplyEnv(os.LookupEnv)
		cfg.Defaults()
		return &cfg, err
	}
	defer f.Close()
	return fromReader(f, os.LookupEnv)
}

func FromReader(r io.Reader) (*Config, error) {
	return fromReader(r, func(string) (string, bool) { return "", false })
}

func fromReader(r io.Reader, lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	cfg.ApplyEnv(lookup)
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides file values with MASTHEAD_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("MASTHEAD_HTTP_ADDRESS", &c.HTTP.Address)
	set("MASTHEAD_DATABASE_URL", &c.Database.URL)
	set("MASTHEAD_REDIS_ADDR", &c.Redis.Addr)
	set("MASTHEAD_REDIS_PASSWORD", &c.Redis.Password)
	set("MASTHEAD_JWT_SECRET", &c.Security.JWTSecret)
	set("MASTHEAD_SESSION_HASH_KEY", &c.Security.SessionHashKey)
	set("MASTHEAD_SESSION_BLOCK_KEY", &c.Security.SessionBlockKey)
	set("MASTHEAD_LOG_LEVEL", &c.Logging.Level)
	set("MASTHEAD_LOG_FORMAT", &c.Logging.Format)
}
