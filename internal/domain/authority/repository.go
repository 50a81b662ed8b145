package authority

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists authority records. Save and Delete write pending
// domain events to the outbox in the same transaction.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IsaarRecord, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]IsaarRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]IsaarRecord, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, r *IsaarRecord) error
	Delete(ctx context.Context, r *IsaarRecord) error
}
