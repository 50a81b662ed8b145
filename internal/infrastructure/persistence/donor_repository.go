package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var donorList = listSpec{
	sortFields:    DonorSortFields,
	defaultSort:   "name",
	searchColumns: []string{"name", "email", "city"},
	filterColumns: map[string]string{"country": "country"},
}

// GormDonorRepository implements donor.Repository using GORM
type GormDonorRepository struct {
	aggregateStore
}

// NewGormDonorRepository creates a new GormDonorRepository
func NewGormDonorRepository(db *gorm.DB) *GormDonorRepository {
	return &GormDonorRepository{aggregateStore{db: db}}
}

// FindByID finds a donor by its ID
func (r *GormDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error) {
	var d donor.Donor
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindAll finds all donors matching the filter
func (r *GormDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]donor.Donor, error) {
	var donors []donor.Donor
	if err := donorList.findAll(ctx, r.db, &donor.Donor{}, &donors, filter); err != nil {
		return nil, err
	}
	return donors, nil
}

// Count counts donors matching the filter
func (r *GormDonorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return donorList.count(ctx, r.db, &donor.Donor{}, filter)
}

// Save creates or updates a donor
func (r *GormDonorRepository) Save(ctx context.Context, d *donor.Donor) error {
	return r.save(ctx, d, nil)
}

// Delete deletes a donor by ID
func (r *GormDonorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &donor.Donor{}, id)
}

// deleteByID removes a row of a record type that emits no events
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ donor.Repository = (*GormDonorRepository)(nil)
