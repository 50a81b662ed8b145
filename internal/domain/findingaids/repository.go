package findingaids

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists finding aids. Save and Delete write pending domain
// events to the outbox in the same transaction.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FindingAidsEntity, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]FindingAidsEntity, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindIDsByContainer(ctx context.Context, containerID uuid.UUID) ([]uuid.UUID, error)
	FindIDsByUnit(ctx context.Context, unitID uuid.UUID) ([]uuid.UUID, error)
	CountByContainer(ctx context.Context, containerID uuid.UUID) (int64, error)
	// NextFolderNo returns the next free folder number in a container
	NextFolderNo(ctx context.Context, containerID uuid.UUID) (int, error)
	// NextSequenceNo returns the next free item number in a folder
	NextSequenceNo(ctx context.Context, containerID uuid.UUID, folderNo int) (int, error)
	Save(ctx context.Context, e *FindingAidsEntity) error
	Delete(ctx context.Context, e *FindingAidsEntity) error
}
