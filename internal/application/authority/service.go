package authority

import (
	"context"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrNameTaken is returned when another record already uses the authorized name
var ErrNameTaken = shared.NewDomainError("ISAAR_NAME_ALREADY_EXISTS", "An authority record with this name already exists")

// Service handles authority record operations
type Service struct {
	repo authority.Repository
}

// NewService creates an authority record service
func NewService(repo authority.Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a draft authority record
func (s *Service) Create(ctx context.Context, req IsaarRequest) (*IsaarResponse, error) {
	if err := s.checkName(ctx, req.Name, nil); err != nil {
		return nil, err
	}
	r, err := authority.NewIsaarRecord(req.description())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToIsaarResponse(r), nil
}

// GetByID returns an authority record
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*IsaarResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToIsaarResponse(r), nil
}

// List returns a page of authority records
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[IsaarListResponse], error) {
	f := filter.Filter()
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[IsaarListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[IsaarListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToIsaarListResponse), nil
}

// Update replaces the description of an authority record
func (s *Service) Update(ctx context.Context, id uuid.UUID, req IsaarRequest) (*IsaarResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, req.Name, &id); err != nil {
		return nil, err
	}
	if err := r.Update(req.description()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToIsaarResponse(r), nil
}

// Finalize moves a draft record to final, which publishes it to the catalog
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*IsaarResponse, error) {
	return s.transition(ctx, id, (*authority.IsaarRecord).Finalize)
}

// Revert moves a final record back to draft
func (s *Service) Revert(ctx context.Context, id uuid.UUID) (*IsaarResponse, error) {
	return s.transition(ctx, id, (*authority.IsaarRecord).Revert)
}

// Delete removes an authority record and its catalog entry
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	r.MarkDeleted()
	return s.repo.Delete(ctx, r)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, fn func(*authority.IsaarRecord) error) (*IsaarResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToIsaarResponse(r), nil
}

func (s *Service) checkName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrNameTaken
	}
	return nil
}
