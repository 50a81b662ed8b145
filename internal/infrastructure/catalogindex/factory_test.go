package catalogindex

import (
	"testing"

	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	idx, err := New(config.CatalogConfig{Backend: "memory"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryIndex{}, idx)

	_, err = New(config.CatalogConfig{Backend: "redis"}, nil, logger)
	assert.Error(t, err)

	idx, err = New(config.CatalogConfig{Backend: "redis", AllowMemoryFallback: true}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryIndex{}, idx)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	idx, err = New(config.CatalogConfig{Backend: "redis", KeyPrefix: "osa:"}, client, logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisIndex{}, idx)

	_, err = New(config.CatalogConfig{Backend: "solr"}, nil, logger)
	assert.Error(t, err)
}
