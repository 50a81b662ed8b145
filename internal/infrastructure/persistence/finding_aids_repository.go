package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var findingAidsList = listSpec{
	sortFields:    FindingAidsSortFields,
	defaultSort:   "reference_code",
	searchColumns: []string{"title", "title_original", "reference_code"},
	filterColumns: map[string]string{
		"archival_unit_id": "archival_unit_id",
		"container_id":     "container_id",
		"level":            "level",
		"published":        "published",
		"confidential":     "confidential",
	},
}

// GormFindingAidsRepository implements findingaids.Repository using GORM
type GormFindingAidsRepository struct {
	aggregateStore
}

// NewGormFindingAidsRepository creates a new GormFindingAidsRepository
func NewGormFindingAidsRepository(db *gorm.DB) *GormFindingAidsRepository {
	return &GormFindingAidsRepository{aggregateStore{db: db}}
}

// FindByID finds a finding aids record by its ID
func (r *GormFindingAidsRepository) FindByID(ctx context.Context, id uuid.UUID) (*findingaids.FindingAidsEntity, error) {
	var e findingaids.FindingAidsEntity
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindAll finds all finding aids records matching the filter
func (r *GormFindingAidsRepository) FindAll(ctx context.Context, filter shared.Filter) ([]findingaids.FindingAidsEntity, error) {
	var entities []findingaids.FindingAidsEntity
	if err := findingAidsList.findAll(ctx, r.db, &findingaids.FindingAidsEntity{}, &entities, filter); err != nil {
		return nil, err
	}
	return entities, nil
}

// Count counts finding aids records matching the filter
func (r *GormFindingAidsRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return findingAidsList.count(ctx, r.db, &findingaids.FindingAidsEntity{}, filter)
}

// FindIDsByContainer returns the IDs of every record stored in a container
func (r *GormFindingAidsRepository) FindIDsByContainer(ctx context.Context, containerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&findingaids.FindingAidsEntity{}).
		Where("container_id = ?", containerID).
		Order("folder_no ASC").Order("sequence_no ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindIDsByUnit returns the IDs of every record described under a series
func (r *GormFindingAidsRepository) FindIDsByUnit(ctx context.Context, unitID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&findingaids.FindingAidsEntity{}).
		Where("archival_unit_id = ?", unitID).
		Order("reference_code ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByContainer counts the records stored in a container
func (r *GormFindingAidsRepository) CountByContainer(ctx context.Context, containerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&findingaids.FindingAidsEntity{}).
		Where("container_id = ?", containerID).
		Count(&count).Error
	return count, err
}

// NextFolderNo returns max(folder_no)+1 within the container
func (r *GormFindingAidsRepository) NextFolderNo(ctx context.Context, containerID uuid.UUID) (int, error) {
	var maxNo int
	err := r.db.WithContext(ctx).Model(&findingaids.FindingAidsEntity{}).
		Where("container_id = ?", containerID).
		Select("COALESCE(MAX(folder_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}
	return maxNo + 1, nil
}

// NextSequenceNo returns max(sequence_no)+1 within the folder
func (r *GormFindingAidsRepository) NextSequenceNo(ctx context.Context, containerID uuid.UUID, folderNo int) (int, error) {
	var maxNo int
	err := r.db.WithContext(ctx).Model(&findingaids.FindingAidsEntity{}).
		Where("container_id = ? AND folder_no = ?", containerID, folderNo).
		Select("COALESCE(MAX(sequence_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}
	return maxNo + 1, nil
}

// Save creates or updates a finding aids record and writes its events
func (r *GormFindingAidsRepository) Save(ctx context.Context, e *findingaids.FindingAidsEntity) error {
	return r.save(ctx, e, nil)
}

// Delete removes a finding aids record and writes its events
func (r *GormFindingAidsRepository) Delete(ctx context.Context, e *findingaids.FindingAidsEntity) error {
	return r.remove(ctx, e, nil)
}

var _ findingaids.Repository = (*GormFindingAidsRepository)(nil)
