package accession

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists accessions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Accession, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Accession, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, a *Accession) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextSeqNumber returns the next free sequence number within a year
	NextSeqNumber(ctx context.Context, year int) (int, error)
	CountByDonor(ctx context.Context, donorID uuid.UUID) (int64, error)
	// TotalExtent sums the extent of all accessions received in a year
	TotalExtent(ctx context.Context, year int) (decimal.Decimal, error)
}
