package findingaids

import (
	"context"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrFolderHasItems is returned when deleting a folder that still has items
var ErrFolderHasItems = shared.NewDomainError("FOLDER_HAS_ITEMS", "Folder still has item level descriptions")

// ContainerFinder loads the container a record is placed in
type ContainerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*container.Container, error)
}

// Service handles finding aids operations
type Service struct {
	repo       findingaids.Repository
	containers ContainerFinder
}

// NewService creates a finding aids service
func NewService(repo findingaids.Repository, containers ContainerFinder) *Service {
	return &Service{repo: repo, containers: containers}
}

// Create adds a folder or item description to a container
func (s *Service) Create(ctx context.Context, req CreateFindingAidsRequest) (*FindingAidsResponse, error) {
	c, err := s.containers.FindByID(ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}
	p := findingaids.Placement{
		ArchivalUnitID:         c.ArchivalUnitID,
		ContainerID:            c.ID,
		ContainerReferenceCode: c.ReferenceCode,
		FolderNo:               req.FolderNo,
		SequenceNo:             req.SequenceNo,
	}
	var e *findingaids.FindingAidsEntity
	switch findingaids.Level(req.Level) {
	case findingaids.LevelFolder:
		if p.FolderNo == 0 {
			if p.FolderNo, err = s.repo.NextFolderNo(ctx, c.ID); err != nil {
				return nil, err
			}
		}
		e, err = findingaids.NewFolder(p, req.description())
	case findingaids.LevelItem:
		if p.FolderNo == 0 {
			return nil, shared.NewDomainError("INVALID_NUMBER", "Items need a folder number")
		}
		if p.SequenceNo == 0 {
			if p.SequenceNo, err = s.repo.NextSequenceNo(ctx, c.ID, p.FolderNo); err != nil {
				return nil, err
			}
		}
		e, err = findingaids.NewItem(p, req.description())
	default:
		return nil, shared.NewDomainError("INVALID_LEVEL", "Unknown finding aids level")
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return ToFindingAidsResponse(e), nil
}

// GetByID returns a finding aids record
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*FindingAidsResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFindingAidsResponse(e), nil
}

// List returns a page of finding aids records
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[FindingAidsListResponse], error) {
	f := filter.Filter()
	if filter.ArchivalUnitID != nil {
		f.Filters["archival_unit_id"] = *filter.ArchivalUnitID
	}
	if filter.ContainerID != nil {
		f.Filters["container_id"] = *filter.ContainerID
	}
	if filter.Level != "" {
		f.Filters["level"] = filter.Level
	}
	if filter.Published != nil {
		f.Filters["published"] = *filter.Published
	}
	if filter.Confidential != nil {
		f.Filters["confidential"] = *filter.Confidential
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[FindingAidsListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[FindingAidsListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToFindingAidsListResponse), nil
}

// Update replaces the description of a record
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateFindingAidsRequest) (*FindingAidsResponse, error) {
	return s.mutate(ctx, id, func(e *findingaids.FindingAidsEntity) error {
		return e.Update(req.description())
	})
}

// Publish puts a record into the public catalog
func (s *Service) Publish(ctx context.Context, id uuid.UUID) (*FindingAidsResponse, error) {
	return s.mutate(ctx, id, (*findingaids.FindingAidsEntity).Publish)
}

// Unpublish withdraws a record from the public catalog
func (s *Service) Unpublish(ctx context.Context, id uuid.UUID) (*FindingAidsResponse, error) {
	return s.mutate(ctx, id, (*findingaids.FindingAidsEntity).Unpublish)
}

// SetConfidential marks a record confidential or public
func (s *Service) SetConfidential(ctx context.Context, id uuid.UUID, confidential bool) (*FindingAidsResponse, error) {
	return s.mutate(ctx, id, func(e *findingaids.FindingAidsEntity) error {
		e.SetConfidential(confidential)
		return nil
	})
}

// Delete removes a record and its catalog entry. Folders must be emptied
// of items first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e.Level == findingaids.LevelFolder {
		next, err := s.repo.NextSequenceNo(ctx, e.ContainerID, e.FolderNo)
		if err != nil {
			return err
		}
		if next > 1 {
			return ErrFolderHasItems
		}
	}
	e.MarkDeleted()
	return s.repo.Delete(ctx, e)
}

// mutate loads a record, applies fn and saves it when fn changed anything
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*findingaids.FindingAidsEntity) error) (*FindingAidsResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := e.GetVersion()
	if err := fn(e); err != nil {
		return nil, err
	}
	if e.GetVersion() != before {
		if err := s.repo.Save(ctx, e); err != nil {
			return nil, err
		}
	}
	return ToFindingAidsResponse(e), nil
}
