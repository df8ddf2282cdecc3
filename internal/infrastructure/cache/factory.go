package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProgressStoreFactory creates progress stores based on configuration
type ProgressStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProgressStoreFactoryOption is a functional option for configuring the factory
type ProgressStoreFactoryOption func(*ProgressStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ProgressStoreFactoryOption {
	return func(f *ProgressStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store. Default is true.
func WithInMemoryFallback(allow bool) ProgressStoreFactoryOption {
	return func(f *ProgressStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProgressStoreFactory creates a new factory
func NewProgressStoreFactory(cfg config.RedisConfig, opts ...ProgressStoreFactoryOption) *ProgressStoreFactory {
	f := &ProgressStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore connects to Redis and returns a Redis-backed store
func (f *ProgressStoreFactory) CreateRedisStore(ctx context.Context) (*RedisProgressStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisProgressStore(client, f.redisConfig.ProgressChannel, f.redisConfig.ProgressTTL, f.logger), nil
}

// CreateStore returns the Redis store when Redis is enabled and reachable,
// otherwise the in-memory store.
func (f *ProgressStoreFactory) CreateStore(ctx context.Context) (ProgressStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, import progress is kept in memory")
		return NewInMemoryProgressStore(), nil
	}

	store, err := f.CreateRedisStore(ctx)
	if err == nil {
		f.logger.Info("Using Redis progress store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for import progress but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory progress store. "+
		"Progress streams only reach clients connected to the importing instance.",
		zap.Error(err),
	)
	return NewInMemoryProgressStore(), nil
}
