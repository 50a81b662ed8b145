package persistence

import (
	"context"
	"strings"

	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var isaarList = listSpec{
	sortFields:    IsaarSortFields,
	defaultSort:   "name",
	searchColumns: []string{"name", "name_original"},
	filterColumns: map[string]string{
		"type":   "type",
		"status": "status",
	},
}

// GormIsaarRepository implements authority.Repository using GORM
type GormIsaarRepository struct {
	aggregateStore
}

// NewGormIsaarRepository creates a new GormIsaarRepository
func NewGormIsaarRepository(db *gorm.DB) *GormIsaarRepository {
	return &GormIsaarRepository{aggregateStore{db: db}}
}

// FindByID finds an authority record by its ID
func (r *GormIsaarRepository) FindByID(ctx context.Context, id uuid.UUID) (*authority.IsaarRecord, error) {
	var rec authority.IsaarRecord
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByIDs loads the records that exist among ids, ordered by name
func (r *GormIsaarRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]authority.IsaarRecord, error) {
	if len(ids) == 0 {
		return []authority.IsaarRecord{}, nil
	}
	var records []authority.IsaarRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds all authority records matching the filter
func (r *GormIsaarRepository) FindAll(ctx context.Context, filter shared.Filter) ([]authority.IsaarRecord, error) {
	var records []authority.IsaarRecord
	if err := isaarList.findAll(ctx, r.db, &authority.IsaarRecord{}, &records, filter); err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts authority records matching the filter
func (r *GormIsaarRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return isaarList.count(ctx, r.db, &authority.IsaarRecord{}, filter)
}

// ExistsByName checks the authorized form of name case-insensitively
func (r *GormIsaarRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&authority.IsaarRecord{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an authority record and writes its events
func (r *GormIsaarRepository) Save(ctx context.Context, rec *authority.IsaarRecord) error {
	return r.save(ctx, rec, nil)
}

// Delete removes an authority record and writes its events
func (r *GormIsaarRepository) Delete(ctx context.Context, rec *authority.IsaarRecord) error {
	return r.remove(ctx, rec, nil)
}

var _ authority.Repository = (*GormIsaarRepository)(nil)
