package storage

import (
	"fmt"

	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the object storage selected by cfg.Driver
func New(cfg config.StorageConfig, logger *zap.Logger) (digitization.ObjectStorage, error) {
	switch cfg.Driver {
	case "s3":
		s, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		logger.Info("using S3 object storage", zap.String("bucket", s.Bucket()))
		return s, nil
	case "stub", "":
		logger.Warn("using stub object storage, download links are not signed")
		stub := NewStubObjectStorage()
		stub.TTL = cfg.PresignExpiration
		return stub, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
