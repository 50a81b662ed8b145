package persistence

import (
	"context"

	"github.com/ams/backend/internal/domain/accession"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var accessionList = listSpec{
	sortFields:    AccessionSortFields,
	defaultSort:   "transfer_date",
	searchColumns: []string{"title", "description"},
	filterColumns: map[string]string{
		"seq_year":         "seq_year",
		"donor_id":         "donor_id",
		"archival_unit_id": "archival_unit_id",
		"method":           "method",
	},
}

// GormAccessionRepository implements accession.Repository using GORM
type GormAccessionRepository struct {
	aggregateStore
}

// NewGormAccessionRepository creates a new GormAccessionRepository
func NewGormAccessionRepository(db *gorm.DB) *GormAccessionRepository {
	return &GormAccessionRepository{aggregateStore{db: db}}
}

// FindByID finds an accession by its ID
func (r *GormAccessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*accession.Accession, error) {
	var a accession.Accession
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAll finds all accessions matching the filter
func (r *GormAccessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accession.Accession, error) {
	var accessions []accession.Accession
	if err := accessionList.findAll(ctx, r.db, &accession.Accession{}, &accessions, filter); err != nil {
		return nil, err
	}
	return accessions, nil
}

// Count counts accessions matching the filter
func (r *GormAccessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return accessionList.count(ctx, r.db, &accession.Accession{}, filter)
}

// Save creates or updates an accession
func (r *GormAccessionRepository) Save(ctx context.Context, a *accession.Accession) error {
	return r.save(ctx, a, nil)
}

// Delete deletes an accession by ID
func (r *GormAccessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &accession.Accession{}, id)
}

// NextSeqNumber returns max(seq_number)+1 for the year
func (r *GormAccessionRepository) NextSeqNumber(ctx context.Context, year int) (int, error) {
	var maxSeq int
	err := r.db.WithContext(ctx).Model(&accession.Accession{}).
		Where("seq_year = ?", year).
		Select("COALESCE(MAX(seq_number), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

// CountByDonor counts accessions received from a donor
func (r *GormAccessionRepository) CountByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accession.Accession{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error
	return count, err
}

// TotalExtent sums the extent of accessions received in a year
func (r *GormAccessionRepository) TotalExtent(ctx context.Context, year int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&accession.Accession{}).
		Where("seq_year = ?", year).
		Select("SUM(extent)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

var _ accession.Repository = (*GormAccessionRepository)(nil)
