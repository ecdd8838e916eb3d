package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.HTTPPort)
	assert.Equal(t, ":3000", cfg.App.Address())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, "go", cfg.Backend.Name)
	assert.Equal(t, 0, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "ui_session", cfg.Session.CookieName)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "users-ui", cfg.Logger.ServiceName)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=9090\nAPI_URL=http://backend:8000/\nBACKEND_NAME=rust\nREDIS_ENABLED=true\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "http://backend:8000", cfg.Backend.URL, "trailing slash is trimmed")
	assert.Equal(t, "rust", cfg.Backend.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("BACKEND_NAME=rust\n"), 0o600))
	t.Setenv("BACKEND_NAME", "python")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.Backend.Name)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_DevelopmentLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Logger.EnableSampling)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "invalid api url", mutate: func(c *Config) { c.Backend.URL = "not a url" }, wantErr: true},
		{name: "empty backend name", mutate: func(c *Config) { c.Backend.Name = "" }, wantErr: true},
		{name: "backend name with space", mutate: func(c *Config) { c.Backend.Name = "my go" }, wantErr: true},
		{name: "backend name with dash", mutate: func(c *Config) { c.Backend.Name = "go-v2" }},
		{name: "non numeric port", mutate: func(c *Config) { c.App.HTTPPort = "http" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Backend.TimeoutSeconds = -1 }, wantErr: true},
		{name: "unknown log format", mutate: func(c *Config) { c.Logger.Format = "xml" }, wantErr: true},
		{name: "redis enabled without host", mutate: func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Host = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(t.TempDir())
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
