package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"users-ui/cmd/web/infrastructure"
	"users-ui/internal/adapter/backend"
	ginhandler "users-ui/internal/adapter/gin/handler"
	"users-ui/internal/adapter/gin/middleware"
	"users-ui/internal/adapter/session"
	"users-ui/internal/config"
	"users-ui/internal/usecase/userinterface"
	redisclient "users-ui/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	Backend     *backend.Client
	Store       userinterface.StateStore
	UserUI      userinterface.Usecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Redis is optional
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second

	var store userinterface.StateStore
	if rdb != nil {
		store = session.NewRedisStateStore(rdb.Client, ttl, l)
	} else {
		store = session.NewMemoryStateStore(ttl)
	}

	client := backend.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
		l,
	)

	userUI := userinterface.New(client, store, l)

	rateLimiter := newRateLimiter(cfg, rdb, l)

	ginHandler := ginhandler.NewUserHandler(userUI, cfg.Backend.Name, l,
		ginhandler.WithStaticDir(cfg.App.StaticDir),
	)

	l.Info("users backend configured",
		zap.String("backend", cfg.Backend.Name),
		zap.String("api_url", cfg.Backend.URL),
	)

	return &Container{
		Config:      cfg,
		Logger:      l,
		RedisClient: rdb,
		Backend:     client,
		Store:       store,
		UserUI:      userUI,
		RateLimiter: rateLimiter,
		GinHandler:  ginHandler,
	}, nil
}

func newRateLimiter(cfg *config.Config, rdb *redisclient.Client, l *zap.Logger) *middleware.RateLimiter {
	limiterCfg := middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
		Enabled:           cfg.RateLimit.Enabled,
	}
	if rdb == nil {
		if cfg.RateLimit.Enabled {
			l.Warn("rate limiting requires Redis, form posts are not limited")
		}
		return middleware.NewRateLimiter(nil, limiterCfg, l)
	}
	return middleware.NewRateLimiter(rdb.Client, limiterCfg, l)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var err error

	if c.RedisClient != nil {
		err = multierr.Append(err, c.RedisClient.Close())
	}

	if err != nil {
		return fmt.Errorf("container close: %w", err)
	}
	return nil
}
