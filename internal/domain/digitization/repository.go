package digitization

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists digital versions. Save and Delete write pending
// domain events to the outbox in the same transaction.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DigitalVersion, error)
	FindByIdentifier(ctx context.Context, identifier string) (*DigitalVersion, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]DigitalVersion, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsForContainer reports whether the container itself is digitized
	ExistsForContainer(ctx context.Context, containerID uuid.UUID, onlineOnly bool) (bool, error)
	// ExistsForFindingAids reports whether the record itself is digitized
	ExistsForFindingAids(ctx context.Context, entityID uuid.UUID, onlineOnly bool) (bool, error)
	CountByContainer(ctx context.Context, containerID uuid.UUID) (int64, error)
	Save(ctx context.Context, v *DigitalVersion) error
	Delete(ctx context.Context, v *DigitalVersion) error
}

// ObjectStorage stores digitized files
type ObjectStorage interface {
	// PresignedDownloadURL returns a time-limited download URL for a key
	PresignedDownloadURL(ctx context.Context, key, filename string) (string, error)
	// PresignedUploadURL returns a time-limited upload URL for a key
	PresignedUploadURL(ctx context.Context, key, contentType string) (string, error)
	// Exists reports whether an object is stored under the key
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object stored under the key
	Delete(ctx context.Context, key string) error
}
