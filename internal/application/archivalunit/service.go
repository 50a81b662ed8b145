package archivalunit

import (
	"context"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Errors returned when a unit cannot be removed
var (
	ErrHasChildren   = shared.NewDomainError("UNIT_HAS_CHILDREN", "Archival unit has subordinate units")
	ErrHasContainers = shared.NewDomainError("UNIT_IN_USE", "Archival unit still holds containers")
)

// CreatorFinder resolves the authority records named as creators
type CreatorFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]authority.IsaarRecord, error)
}

// ContainerCounter counts the containers of a series
type ContainerCounter interface {
	CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error)
}

// Service handles archival unit operations
type Service struct {
	repo       archivalunit.Repository
	creators   CreatorFinder
	containers ContainerCounter
}

// NewService creates an archival unit service
func NewService(repo archivalunit.Repository, creators CreatorFinder, containers ContainerCounter) *Service {
	return &Service{repo: repo, creators: creators, containers: containers}
}

// Create adds a unit at the requested level under its parent
func (s *Service) Create(ctx context.Context, req CreateArchivalUnitRequest) (*ArchivalUnitResponse, error) {
	if err := s.checkCreators(ctx, req.CreatorIDs); err != nil {
		return nil, err
	}
	d := req.description()
	var (
		u   *archivalunit.ArchivalUnit
		err error
	)
	switch archivalunit.Level(req.Level) {
	case archivalunit.LevelFonds:
		u, err = archivalunit.NewFonds(req.Number, d)
	case archivalunit.LevelSubfonds, archivalunit.LevelSeries:
		if req.ParentID == nil {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent unit is required")
		}
		parent, ferr := s.repo.FindByID(ctx, *req.ParentID)
		if ferr != nil {
			return nil, ferr
		}
		if archivalunit.Level(req.Level) == archivalunit.LevelSubfonds {
			u, err = archivalunit.NewSubfonds(parent, req.Number, d)
		} else {
			u, err = archivalunit.NewSeries(parent, req.Number, d)
		}
	default:
		return nil, shared.NewDomainError("INVALID_LEVEL", "Unknown archival unit level")
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return ToArchivalUnitResponse(u), nil
}

// GetByID returns an archival unit
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ArchivalUnitResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToArchivalUnitResponse(u), nil
}

// GetByReference returns the unit with the given fonds/subfonds/series numbers
func (s *Service) GetByReference(ctx context.Context, fonds, subfonds, series int) (*ArchivalUnitResponse, error) {
	u, err := s.repo.FindByReference(ctx, fonds, subfonds, series)
	if err != nil {
		return nil, err
	}
	return ToArchivalUnitResponse(u), nil
}

// Children lists the units directly below a unit
func (s *Service) Children(ctx context.Context, id uuid.UUID) ([]ArchivalUnitListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	children, err := s.repo.FindChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ArchivalUnitListResponse, len(children))
	for i := range children {
		out[i] = ToArchivalUnitListResponse(&children[i])
	}
	return out, nil
}

// List returns a page of archival units
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[ArchivalUnitListResponse], error) {
	f := filter.Filter()
	if filter.Level != "" {
		f.Filters["level"] = filter.Level
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Fonds > 0 {
		f.Filters["fonds"] = filter.Fonds
	}
	if filter.ParentID != nil {
		f.Filters["parent_id"] = *filter.ParentID
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[ArchivalUnitListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[ArchivalUnitListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToArchivalUnitListResponse), nil
}

// Update replaces the description of a unit
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateArchivalUnitRequest) (*ArchivalUnitResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCreators(ctx, req.CreatorIDs); err != nil {
		return nil, err
	}
	if err := u.Update(req.description()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return ToArchivalUnitResponse(u), nil
}

// Finalize moves a draft unit to final, which publishes it to the catalog
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*ArchivalUnitResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Finalize(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return ToArchivalUnitResponse(u), nil
}

// Delete removes a unit that has neither subordinate units nor containers
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	children, err := s.repo.FindChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrHasChildren
	}
	if u.Level == archivalunit.LevelSeries {
		n, err := s.containers.CountByUnit(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasContainers
		}
	}
	u.MarkDeleted()
	return s.repo.Delete(ctx, u)
}

func (s *Service) checkCreators(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	found, err := s.creators.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(unique) {
		return shared.NewDomainError("INVALID_CREATOR", "Creator authority record not found")
	}
	return nil
}
