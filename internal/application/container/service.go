package container

import (
	"context"
	"errors"
	"strings"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Errors returned by container operations
var (
	ErrBarcodeTaken  = shared.NewDomainError("BARCODE_ALREADY_EXISTS", "Another container has this barcode")
	ErrNotSeries     = shared.NewDomainError("INVALID_UNIT", "Containers can only be added to a series")
	ErrContainerUsed = shared.NewDomainError("CONTAINER_IN_USE", "Container still holds finding aids or digital versions")
)

// UnitFinder loads the series a container belongs to
type UnitFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*archivalunit.ArchivalUnit, error)
}

// ContentCounter counts records that reference a container
type ContentCounter interface {
	CountByContainer(ctx context.Context, containerID uuid.UUID) (int64, error)
}

// Service handles container operations
type Service struct {
	repo            container.Repository
	units           UnitFinder
	findingAids     ContentCounter
	digitalVersions ContentCounter
}

// NewService creates a container service
func NewService(repo container.Repository, units UnitFinder, findingAids, digitalVersions ContentCounter) *Service {
	return &Service{repo: repo, units: units, findingAids: findingAids, digitalVersions: digitalVersions}
}

// Create adds a container to a series
func (s *Service) Create(ctx context.Context, req CreateContainerRequest) (*ContainerResponse, error) {
	unit, err := s.units.FindByID(ctx, req.ArchivalUnitID)
	if err != nil {
		return nil, err
	}
	if unit.Level != archivalunit.LevelSeries {
		return nil, ErrNotSeries
	}
	if err := s.checkBarcode(ctx, req.Barcode, uuid.Nil); err != nil {
		return nil, err
	}
	no := req.ContainerNo
	if no == 0 {
		if no, err = s.repo.NextContainerNo(ctx, unit.ID); err != nil {
			return nil, err
		}
	}
	c, err := container.NewContainer(unit.ID, unit.ReferenceCode(), no, req.CarrierType, req.Barcode)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToContainerResponse(c), nil
}

// GetByID returns a container
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ContainerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToContainerResponse(c), nil
}

// GetByBarcode returns the container carrying a barcode
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*ContainerResponse, error) {
	c, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return ToContainerResponse(c), nil
}

// List returns a page of containers
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[ContainerListResponse], error) {
	f := filter.Filter()
	if filter.ArchivalUnitID != nil {
		f.Filters["archival_unit_id"] = *filter.ArchivalUnitID
	}
	if filter.CarrierType != "" {
		f.Filters["carrier_type"] = filter.CarrierType
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[ContainerListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[ContainerListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToContainerListResponse), nil
}

// Update changes the carrier type and barcode of a container
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateContainerRequest) (*ContainerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkBarcode(ctx, req.Barcode, id); err != nil {
		return nil, err
	}
	if err := c.Update(req.CarrierType, req.Barcode); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToContainerResponse(c), nil
}

// Delete removes an empty container
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	for _, counter := range []ContentCounter{s.findingAids, s.digitalVersions} {
		n, err := counter.CountByContainer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrContainerUsed
		}
	}
	c.MarkDeleted()
	return s.repo.Delete(ctx, c)
}

func (s *Service) checkBarcode(ctx context.Context, barcode string, self uuid.UUID) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil
	}
	other, err := s.repo.FindByBarcode(ctx, barcode)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return ErrBarcodeTaken
	}
	return nil
}
