package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)
	cfg := DefaultConfig()
	assert.Equal(t, "gemini", cfg.DefaultProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.DefaultModel)
	assert.Equal(t, "admin@learnsimply.ai", cfg.AdminEmail)
	assert.Equal(t, filepath.Join(dir, "data", "learnsimply"), cfg.Storage.Dir)
	assert.Equal(t, "memory", cfg.Session.Scope)
	assert.NoError(t, cfg.Validate())
}

func TestSessionDir(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(dir, "run", "learnsimply"), filepath.Dir(cfg.SessionDir()))

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(filepath.Dir(cfg.SessionDir())))

	cfg.Session.Dir = filepath.Join(dir, "tty1")
	assert.Equal(t, filepath.Join(dir, "tty1"), cfg.SessionDir())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	_, p := cfg.ActiveProvider()
	assert.Equal(t, "google", p.Type)
	assert.Equal(t, "from-env", p.APIKey)
	assert.Equal(t, "gemini-2.5-flash", p.Model)
	assert.Empty(t, cfg.Warnings())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	t.Setenv("LOCAL_KEY", "sk-local")
	path := writeConfig(t, dir, `
default_provider: local
providers:
  local:
    type: openai
    base_url: http://localhost:8000/v1
    api_key: $LOCAL_KEY
    model: qwen2.5
storage:
  backend: sqlite
  dir: `+dir+`
admin_email: Boss@Example.com
request_timeout: 15s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	name, p := cfg.ActiveProvider()
	assert.Equal(t, "local", name)
	assert.Equal(t, "sk-local", p.APIKey)
	assert.Equal(t, "qwen2.5", p.Model)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "learnsimply_", cfg.Storage.Namespace)
	assert.Equal(t, "boss@example.com", cfg.AdminEmail)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	// built-in providers stay available
	_, ok := cfg.ProviderFor("gemini")
	assert.True(t, ok)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LEARNSIMPLY_STORAGE_BACKEND", "memory")
	t.Setenv("LEARNSIMPLY_SESSION_SCOPE", "file")
	t.Setenv("LEARNSIMPLY_SESSION_DIR", "/run/user/1000/ls")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "file", cfg.Session.Scope)
	assert.Equal(t, "/run/user/1000/ls", cfg.SessionDir())
}

func TestLoad_MissingKeyIsAWarning(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "GEMINI_API_KEY")
}

func TestValidate(t *testing.T) {
	isolate(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown default", func(c *Config) { c.DefaultProvider = "nope" }, "not found"},
		{"bad type", func(c *Config) { c.Providers["x"] = ProviderConfig{Type: "anthropic"} }, "invalid type"},
		{"openai without url", func(c *Config) { c.Providers["x"] = ProviderConfig{Type: "openai"} }, "requires base_url"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"redis without addr", func(c *Config) { c.Storage.Backend = "redis"; c.Storage.RedisAddr = "" }, "redis_addr"},
		{"bad scope", func(c *Config) { c.Session.Scope = "cookie" }, "session.scope"},
		{"bad log mode", func(c *Config) { c.Log.Mode = "loud" }, "log.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.yaml")

	cfg := DefaultConfig()
	cfg.Theme = "green"
	require.NoError(t, cfg.Save(path, false))
	assert.Error(t, cfg.Save(path, false))
	require.NoError(t, cfg.Save(path, true))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "green", loaded.Theme)
	assert.Equal(t, cfg.RequestTimeout, loaded.RequestTimeout)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "$GEMINI_API_KEY")
}
