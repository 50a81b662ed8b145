package catalogindex

import (
	"fmt"

	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New returns the catalog index selected by cfg.Backend. client is nil when
// Redis could not be reached.
func New(cfg config.CatalogConfig, client redis.UniversalClient, logger *zap.Logger) (catalog.Index, error) {
	switch cfg.Backend {
	case "memory":
		logger.Info("using in-memory catalog index")
		return NewMemoryIndex(), nil
	case "redis", "":
		if client != nil {
			logger.Info("using Redis catalog index", zap.String("prefix", cfg.KeyPrefix))
			return NewRedisIndex(client, cfg.KeyPrefix), nil
		}
		if !cfg.AllowMemoryFallback {
			return nil, fmt.Errorf("catalog backend redis is unavailable")
		}
		logger.Warn("Redis unavailable, catalog index falls back to memory; run a reindex once Redis is back")
		return NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
