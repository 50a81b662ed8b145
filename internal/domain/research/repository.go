package research

import (
	"context"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResearcherRepository persists researchers
type ResearcherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Researcher, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Researcher, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, r *Researcher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestRepository persists research requests with their items
type RequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ResearchRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ResearchRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountOpenByResearcher(ctx context.Context, researcherID uuid.UUID) (int64, error)
	Save(ctx context.Context, r *ResearchRequest) error
}
