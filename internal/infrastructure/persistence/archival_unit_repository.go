package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var archivalUnitList = listSpec{
	sortFields:    ArchivalUnitSortFields,
	defaultSort:   "fonds",
	searchColumns: []string{"title", "title_original"},
	filterColumns: map[string]string{
		"level":     "level",
		"status":    "status",
		"fonds":     "fonds",
		"parent_id": "parent_id",
	},
}

// GormArchivalUnitRepository implements archivalunit.Repository using GORM
type GormArchivalUnitRepository struct {
	aggregateStore
}

// NewGormArchivalUnitRepository creates a new GormArchivalUnitRepository
func NewGormArchivalUnitRepository(db *gorm.DB) *GormArchivalUnitRepository {
	return &GormArchivalUnitRepository{aggregateStore{db: db}}
}

// FindByID finds an archival unit by its ID
func (r *GormArchivalUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*archivalunit.ArchivalUnit, error) {
	var u archivalunit.ArchivalUnit
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByReference finds the unit with the given fonds/subfonds/series numbers
func (r *GormArchivalUnitRepository) FindByReference(ctx context.Context, fonds, subfonds, series int) (*archivalunit.ArchivalUnit, error) {
	var u archivalunit.ArchivalUnit
	query := r.db.WithContext(ctx).
		Where("fonds = ? AND subfonds = ? AND series = ?", fonds, subfonds, series)
	if err := first(query, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindChildren returns the direct children of a unit in reference order
func (r *GormArchivalUnitRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]archivalunit.ArchivalUnit, error) {
	var units []archivalunit.ArchivalUnit
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("fonds ASC").Order("subfonds ASC").Order("series ASC").
		Find(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

// FindIDsByCreator returns the units whose creator list holds creatorID.
// Postgres uses JSONB containment; other dialects match the serialized id.
func (r *GormArchivalUnitRepository) FindIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).Model(&archivalunit.ArchivalUnit{})
	if r.db.Dialector.Name() == "postgres" {
		query = query.Where("creator_ids @> ?::jsonb", `["`+creatorID.String()+`"]`)
	} else {
		query = query.Where("creator_ids LIKE ?", `%"`+creatorID.String()+`"%`)
	}
	var ids []uuid.UUID
	if err := query.Order("fonds ASC").Order("subfonds ASC").Order("series ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAll finds all archival units matching the filter
func (r *GormArchivalUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]archivalunit.ArchivalUnit, error) {
	var units []archivalunit.ArchivalUnit
	if err := archivalUnitList.findAll(ctx, r.db, &archivalunit.ArchivalUnit{}, &units, filter); err != nil {
		return nil, err
	}
	return units, nil
}

// Count counts archival units matching the filter
func (r *GormArchivalUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return archivalUnitList.count(ctx, r.db, &archivalunit.ArchivalUnit{}, filter)
}

// Save creates or updates an archival unit and writes its events
func (r *GormArchivalUnitRepository) Save(ctx context.Context, u *archivalunit.ArchivalUnit) error {
	return r.save(ctx, u, nil)
}

// Delete removes an archival unit and writes its events
func (r *GormArchivalUnitRepository) Delete(ctx context.Context, u *archivalunit.ArchivalUnit) error {
	return r.remove(ctx, u, nil)
}

var _ archivalunit.Repository = (*GormArchivalUnitRepository)(nil)
