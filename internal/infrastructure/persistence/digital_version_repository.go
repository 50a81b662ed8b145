package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var digitalVersionList = listSpec{
	sortFields:    DigitalVersionSortFields,
	defaultSort:   "identifier",
	searchColumns: []string{"identifier", "filename"},
	filterColumns: map[string]string{
		"level":                  "level",
		"container_id":           "container_id",
		"finding_aids_entity_id": "finding_aids_entity_id",
		"available_online":       "available_online",
	},
}

// GormDigitalVersionRepository implements digitization.Repository using GORM
type GormDigitalVersionRepository struct {
	aggregateStore
}

// NewGormDigitalVersionRepository creates a new GormDigitalVersionRepository
func NewGormDigitalVersionRepository(db *gorm.DB) *GormDigitalVersionRepository {
	return &GormDigitalVersionRepository{aggregateStore{db: db}}
}

// FindByID finds a digital version by its ID
func (r *GormDigitalVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*digitization.DigitalVersion, error) {
	var v digitization.DigitalVersion
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByIdentifier finds a digital version by its identifier
func (r *GormDigitalVersionRepository) FindByIdentifier(ctx context.Context, identifier string) (*digitization.DigitalVersion, error) {
	var v digitization.DigitalVersion
	if err := first(r.db.WithContext(ctx).Where("identifier = ?", identifier), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindAll finds all digital versions matching the filter
func (r *GormDigitalVersionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]digitization.DigitalVersion, error) {
	var versions []digitization.DigitalVersion
	if err := digitalVersionList.findAll(ctx, r.db, &digitization.DigitalVersion{}, &versions, filter); err != nil {
		return nil, err
	}
	return versions, nil
}

// Count counts digital versions matching the filter
func (r *GormDigitalVersionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return digitalVersionList.count(ctx, r.db, &digitization.DigitalVersion{}, filter)
}

// ExistsForContainer reports whether a container-level version exists
func (r *GormDigitalVersionRepository) ExistsForContainer(ctx context.Context, containerID uuid.UUID, onlineOnly bool) (bool, error) {
	query := r.db.WithContext(ctx).Model(&digitization.DigitalVersion{}).
		Where("container_id = ? AND level = ?", containerID, digitization.LevelContainer)
	return exists(query, onlineOnly)
}

// ExistsForFindingAids reports whether a record-level version exists
func (r *GormDigitalVersionRepository) ExistsForFindingAids(ctx context.Context, entityID uuid.UUID, onlineOnly bool) (bool, error) {
	query := r.db.WithContext(ctx).Model(&digitization.DigitalVersion{}).
		Where("finding_aids_entity_id = ? AND level = ?", entityID, digitization.LevelFindingAids)
	return exists(query, onlineOnly)
}

// CountByContainer counts container-level versions of a container
func (r *GormDigitalVersionRepository) CountByContainer(ctx context.Context, containerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&digitization.DigitalVersion{}).
		Where("container_id = ?", containerID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a digital version and writes its events
func (r *GormDigitalVersionRepository) Save(ctx context.Context, v *digitization.DigitalVersion) error {
	return r.save(ctx, v, nil)
}

// Delete removes a digital version and writes its events
func (r *GormDigitalVersionRepository) Delete(ctx context.Context, v *digitization.DigitalVersion) error {
	return r.remove(ctx, v, nil)
}

func exists(query *gorm.DB, onlineOnly bool) (bool, error) {
	if onlineOnly {
		query = query.Where("available_online = ?", true)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ digitization.Repository = (*GormDigitalVersionRepository)(nil)
