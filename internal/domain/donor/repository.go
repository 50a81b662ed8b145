package donor

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists donors
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Donor, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
}
