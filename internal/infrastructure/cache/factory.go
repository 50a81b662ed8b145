package cache

import (
	"fmt"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory picks the idempotency store for the indexing handlers
type IdempotencyStoreFactory struct {
	client                redis.UniversalClient
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption configures the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether a missing Redis client is tolerated
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a factory. client may be nil when
// Redis could not be reached at startup.
func NewIdempotencyStoreFactory(client redis.UniversalClient, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		client:                client,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store, or an in-memory one when Redis is
// unavailable and fallback is allowed
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if f.client != nil {
		f.logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(f.client, ""), nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable")
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store; " +
		"duplicate indexing is possible with several instances")
	return NewInMemoryIdempotencyStore(), nil
}
