package catalog

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrNotIndexable means the record exists but must not appear in the public
// catalog (draft, unpublished or confidential)
var ErrNotIndexable = shared.NewDomainError("NOT_INDEXABLE", "Record is not publicly indexable")

// Index is the public catalog search store
type Index interface {
	// Upsert stores or replaces a document
	Upsert(ctx context.Context, doc *Document) error
	// Remove deletes a document; removing a missing document is not an error
	Remove(ctx context.Context, docType DocumentType, id uuid.UUID) error
	// Get returns a document or shared.ErrNotFound
	Get(ctx context.Context, docType DocumentType, id uuid.UUID) (*Document, error)
	// Search runs a full-text and facet query
	Search(ctx context.Context, q Query) (*Result, error)
	// Count returns the number of documents of a type
	Count(ctx context.Context, docType DocumentType) (int64, error)
	// IDs lists every indexed id of a type
	IDs(ctx context.Context, docType DocumentType) ([]uuid.UUID, error)
	// Clear removes every document of a type
	Clear(ctx context.Context, docType DocumentType) error
	Close() error
}
