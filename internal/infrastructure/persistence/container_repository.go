package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var containerList = listSpec{
	sortFields:    ContainerSortFields,
	defaultSort:   "reference_code",
	searchColumns: []string{"reference_code", "barcode"},
	filterColumns: map[string]string{
		"archival_unit_id": "archival_unit_id",
		"carrier_type":     "carrier_type",
	},
}

// GormContainerRepository implements container.Repository using GORM
type GormContainerRepository struct {
	aggregateStore
}

// NewGormContainerRepository creates a new GormContainerRepository
func NewGormContainerRepository(db *gorm.DB) *GormContainerRepository {
	return &GormContainerRepository{aggregateStore{db: db}}
}

// FindByID finds a container by its ID
func (r *GormContainerRepository) FindByID(ctx context.Context, id uuid.UUID) (*container.Container, error) {
	var c container.Container
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByBarcode finds a container by its barcode
func (r *GormContainerRepository) FindByBarcode(ctx context.Context, barcode string) (*container.Container, error) {
	var c container.Container
	if err := first(r.db.WithContext(ctx).Where("barcode = ?", barcode), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAll finds all containers matching the filter
func (r *GormContainerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]container.Container, error) {
	var containers []container.Container
	if err := containerList.findAll(ctx, r.db, &container.Container{}, &containers, filter); err != nil {
		return nil, err
	}
	return containers, nil
}

// Count counts containers matching the filter
func (r *GormContainerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return containerList.count(ctx, r.db, &container.Container{}, filter)
}

// CountByUnit counts the containers of an archival unit
func (r *GormContainerRepository) CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&container.Container{}).
		Where("archival_unit_id = ?", unitID).
		Count(&count).Error
	return count, err
}

// NextContainerNo returns max(container_no)+1 within the unit
func (r *GormContainerRepository) NextContainerNo(ctx context.Context, unitID uuid.UUID) (int, error) {
	var maxNo int
	err := r.db.WithContext(ctx).Model(&container.Container{}).
		Where("archival_unit_id = ?", unitID).
		Select("COALESCE(MAX(container_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}
	return maxNo + 1, nil
}

// Save creates or updates a container and writes its events
func (r *GormContainerRepository) Save(ctx context.Context, c *container.Container) error {
	return r.save(ctx, c, nil)
}

// Delete removes a container and writes its events
func (r *GormContainerRepository) Delete(ctx context.Context, c *container.Container) error {
	return r.remove(ctx, c, nil)
}

var _ container.Repository = (*GormContainerRepository)(nil)
