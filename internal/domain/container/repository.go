package container

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists containers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Container, error)
	FindByBarcode(ctx context.Context, barcode string) (*Container, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Container, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error)
	// NextContainerNo returns the next free container number in a series
	NextContainerNo(ctx context.Context, unitID uuid.UUID) (int, error)
	Save(ctx context.Context, c *Container) error
	Delete(ctx context.Context, c *Container) error
}
