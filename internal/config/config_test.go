package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masthead/internal/config"
	"masthead/internal/header"
)

func TestFromReader_Defaults(t *testing.T) {
	cfg, err := config.FromReader(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Database.Enabled())
	assert.NotEmpty(t, cfg.Header.Channels)
	assert.NotEmpty(t, cfg.Header.Categories)
	assert.True(t, cfg.UsesDevSecrets())
}

func TestFromReader_Full(t *testing.T) {
	yml := `
http:
  address: ":9090"
database:
  host: pg
  password: secret
redis:
  addr: "redis:6379"
  state_ttl: 10m
security:
  jwt_secret: s3cret
  session_hash_key: "0123456789abcdef0123456789abcdef"
header:
  channels:
    - {label: Topics, path: /topics}
  categories:
    - {id: world, label: World}
  theme:
    bg_color: "#fff"
  themes:
    - {path: /photography, bg_color: "#000", logo_color: bright, position: upon}
`
	cfg, err := config.FromReader(strings.NewReader(yml))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "10m0s", cfg.Redis.StateTTL.String())
	assert.False(t, cfg.UsesDevSecrets())

	url, err := cfg.Database.AppURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://masthead:secret@pg:5432/masthead?sslmode=disable", url)
	admin, err := cfg.Database.AdminURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://masthead:secret@pg:5432/postgres?sslmode=disable", admin)

	th := cfg.Header.ThemeFor("/photography/story-1")
	p, err := th.Props()
	require.NoError(t, err)
	assert.Equal(t, header.LogoBright, p.LogoColor)
	assert.Equal(t, header.PositionUpon, p.Position)

	th = cfg.Header.ThemeFor("/photographyx")
	assert.Equal(t, "#fff", th.BgColor)
}

func TestFromReader_UnknownField(t *testing.T) {
	_, err := config.FromReader(strings.NewReader("htp:\n  address: x\n"))
	assert.Error(t, err)
}

func TestFromReader_InvalidTheme(t *testing.T) {
	yml := `
header:
  themes:
    - {path: /x, logo_color: neon}
`
	_, err := config.FromReader(strings.NewReader(yml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neon")
}

func TestFromReader_BadCategory(t *testing.T) {
	yml := `
header:
  categories:
    - {id: "a/b", label: X}
`
	_, err := config.FromReader(strings.NewReader(yml))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	var cfg config.Config
	env := map[string]string{"MASTHEAD_REDIS_ADDR": "r:1", "MASTHEAD_LOG_LEVEL": "debug"}
	cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	cfg.Defaults()
	assert.Equal(t, "r:1", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
