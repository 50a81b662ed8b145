package archivalunit

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists archival units. Save and Delete write pending domain
// events to the outbox in the same transaction.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ArchivalUnit, error)
	FindByReference(ctx context.Context, fonds, subfonds, series int) (*ArchivalUnit, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]ArchivalUnit, error)
	// FindIDsByCreator returns the units that list the authority record as a creator
	FindIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ArchivalUnit, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, u *ArchivalUnit) error
	Delete(ctx context.Context, u *ArchivalUnit) error
}
