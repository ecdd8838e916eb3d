package di

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"users-ui/internal/adapter/session"
	"users-ui/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{HTTPPort: "3000", ShutdownTimeoutSeconds: 1},
		Backend:   config.BackendConfig{URL: "http://localhost:8000", Name: "go"},
		Session:   config.SessionConfig{CookieName: "ui_session", TTLSeconds: 60},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1, BurstCapacity: 1},
		Logger:    config.LoggerConfig{Format: "console"},
	}
}

func TestNewContainer_InMemory(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Nil(t, c.RedisClient)
	assert.IsType(t, &session.MemoryStateStore{}, c.Store)
	assert.Equal(t, "http://localhost:8000", c.Backend.BaseURL())
	assert.NotNil(t, c.GinHandler)
	assert.NoError(t, c.Close())
}

func TestNewContainer_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Enabled: true, Host: host, Port: port, PoolSize: 2}

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NotNil(t, c.RedisClient)
	assert.IsType(t, &session.RedisStateStore{}, c.Store)
	assert.NoError(t, c.Close())
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.URL = ""

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
