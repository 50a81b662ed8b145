package donor

import (
	"context"
	"strings"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessionCounter reports how many accessions reference a donor
type AccessionCounter interface {
	CountByDonor(ctx context.Context, donorID uuid.UUID) (int64, error)
}

// Service handles donor operations
type Service struct {
	repo       donor.Repository
	accessions AccessionCounter
}

// NewService creates a donor service
func NewService(repo donor.Repository, accessions AccessionCounter) *Service {
	return &Service{repo: repo, accessions: accessions}
}

// Create registers a donor
func (s *Service) Create(ctx context.Context, req DonorRequest) (*DonorResponse, error) {
	d, err := donor.NewDonor(req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return ToDonorResponse(d), nil
}

// GetByID returns a donor
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DonorResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDonorResponse(d), nil
}

// List returns a page of donors
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[DonorListResponse], error) {
	f := filter.Filter()
	if filter.Country != "" {
		f.Filters["country"] = strings.ToUpper(filter.Country)
	}
	donors, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[DonorListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[DonorListResponse]{}, err
	}
	return common.NewListResult(donors, total, f, ToDonorListResponse), nil
}

// Update replaces a donor's profile
func (s *Service) Update(ctx context.Context, id uuid.UUID, req DonorRequest) (*DonorResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.profile()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return ToDonorResponse(d), nil
}

// Delete removes a donor that has no accessions
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.accessions.CountByDonor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("DONOR_IN_USE", "Donor has accessions and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}
