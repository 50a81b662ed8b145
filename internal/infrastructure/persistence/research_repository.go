package persistence

import (
	"context"
	"strings"

	"github.com/ams/backend/internal/domain/research"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var researcherList = listSpec{
	sortFields:    ResearcherSortFields,
	defaultSort:   "last_name",
	searchColumns: []string{"first_name", "last_name", "email", "card_number"},
	filterColumns: map[string]string{
		"approved":   "approved",
		"occupation": "occupation",
		"country":    "country",
	},
}

var researchRequestList = listSpec{
	sortFields:  ResearchRequestSortFields,
	defaultSort: "created_at",
	filterColumns: map[string]string{
		"researcher_id": "researcher_id",
		"status":        "status",
	},
}

// GormResearcherRepository implements research.ResearcherRepository using GORM
type GormResearcherRepository struct {
	aggregateStore
}

// NewGormResearcherRepository creates a new GormResearcherRepository
func NewGormResearcherRepository(db *gorm.DB) *GormResearcherRepository {
	return &GormResearcherRepository{aggregateStore{db: db}}
}

// FindByID finds a researcher by its ID
func (r *GormResearcherRepository) FindByID(ctx context.Context, id uuid.UUID) (*research.Researcher, error) {
	var researcher research.Researcher
	if err := first(r.db.WithContext(ctx).Where("id = ?", id), &researcher); err != nil {
		return nil, err
	}
	return &researcher, nil
}

// FindAll finds all researchers matching the filter
func (r *GormResearcherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]research.Researcher, error) {
	var researchers []research.Researcher
	if err := researcherList.findAll(ctx, r.db, &research.Researcher{}, &researchers, filter); err != nil {
		return nil, err
	}
	return researchers, nil
}

// Count counts researchers matching the filter
func (r *GormResearcherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return researcherList.count(ctx, r.db, &research.Researcher{}, filter)
}

// ExistsByEmail checks email uniqueness case-insensitively
func (r *GormResearcherRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&research.Researcher{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a researcher
func (r *GormResearcherRepository) Save(ctx context.Context, researcher *research.Researcher) error {
	return r.save(ctx, researcher, nil)
}

// Delete deletes a researcher by ID
func (r *GormResearcherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &research.Researcher{}, id)
}

// GormResearchRequestRepository implements research.RequestRepository using GORM
type GormResearchRequestRepository struct {
	aggregateStore
}

// NewGormResearchRequestRepository creates a new GormResearchRequestRepository
func NewGormResearchRequestRepository(db *gorm.DB) *GormResearchRequestRepository {
	return &GormResearchRequestRepository{aggregateStore{db: db}}
}

// FindByID loads a request with its items
func (r *GormResearchRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*research.ResearchRequest, error) {
	var req research.ResearchRequest
	query := r.db.WithContext(ctx).Preload("Items", orderItems).Where("id = ?", id)
	if err := first(query, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// FindAll finds requests matching the filter with their items
func (r *GormResearchRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]research.ResearchRequest, error) {
	var requests []research.ResearchRequest
	query := researchRequestList.page(
		researchRequestList.where(r.db.WithContext(ctx).Model(&research.ResearchRequest{}), filter),
		filter,
	)
	if err := query.Preload("Items", orderItems).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Count counts requests matching the filter
func (r *GormResearchRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return researchRequestList.count(ctx, r.db, &research.ResearchRequest{}, filter)
}

// CountOpenByResearcher counts new and pending requests of a researcher
func (r *GormResearchRequestRepository) CountOpenByResearcher(ctx context.Context, researcherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&research.ResearchRequest{}).
		Where("researcher_id = ? AND status IN ?", researcherID,
			[]research.RequestStatus{research.RequestStatusNew, research.RequestStatusPending}).
		Count(&count).Error
	return count, err
}

// Save writes the request row and each of its items
func (r *GormResearchRequestRepository) Save(ctx context.Context, req *research.ResearchRequest) error {
	isNew := req.GetVersion() <= 1
	return r.save(ctx, req, func(tx *gorm.DB) error {
		for i := range req.Items {
			item := &req.Items[i]
			item.RequestID = req.ID
			var err error
			if isNew {
				err = tx.Create(item).Error
			} else {
				err = tx.Save(item).Error
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

var (
	_ research.ResearcherRepository = (*GormResearcherRepository)(nil)
	_ research.RequestRepository    = (*GormResearchRequestRepository)(nil)
)
