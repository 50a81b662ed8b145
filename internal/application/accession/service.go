package accession

import (
	"context"
	"errors"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/accession"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// maxSeqAttempts bounds the retries when a concurrent create took the
// sequence number first
const maxSeqAttempts = 3

// DonorFinder loads donors referenced by accessions
type DonorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error)
}

// UnitFinder loads archival units referenced by accessions
type UnitFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*archivalunit.ArchivalUnit, error)
}

// Service handles accession operations
type Service struct {
	repo   accession.Repository
	donors DonorFinder
	units  UnitFinder
}

// NewService creates an accession service
func NewService(repo accession.Repository, donors DonorFinder, units UnitFinder) *Service {
	return &Service{repo: repo, donors: donors, units: units}
}

// Create records an accession with the next sequence number of its year
func (s *Service) Create(ctx context.Context, req AccessionRequest) (*AccessionResponse, error) {
	details, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	year := details.TransferDate.Year()
	for attempt := 1; ; attempt++ {
		seq, err := s.repo.NextSeqNumber(ctx, year)
		if err != nil {
			return nil, err
		}
		a, err := accession.NewAccession(seq, details)
		if err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, a)
		if err == nil {
			return ToAccessionResponse(a), nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxSeqAttempts {
			return nil, err
		}
	}
}

// GetByID returns an accession
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*AccessionResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAccessionResponse(a), nil
}

// List returns a page of accessions
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[AccessionListResponse], error) {
	f := filter.Filter()
	if filter.Year > 0 {
		f.Filters["seq_year"] = filter.Year
	}
	if filter.DonorID != nil {
		f.Filters["donor_id"] = *filter.DonorID
	}
	if filter.ArchivalUnitID != nil {
		f.Filters["archival_unit_id"] = *filter.ArchivalUnitID
	}
	if filter.Method != "" {
		f.Filters["method"] = filter.Method
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[AccessionListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[AccessionListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToAccessionListResponse), nil
}

// Update replaces the accession details; the accession number is kept
func (s *Service) Update(ctx context.Context, id uuid.UUID, req AccessionRequest) (*AccessionResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := a.Update(details); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return ToAccessionResponse(a), nil
}

// Delete removes an accession
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// YearSummary totals the extent received in a year
func (s *Service) YearSummary(ctx context.Context, year int) (*YearSummary, error) {
	total, err := s.repo.TotalExtent(ctx, year)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextSeqNumber(ctx, year)
	if err != nil {
		return nil, err
	}
	return &YearSummary{Year: year, TotalExtent: total, NextSeq: next}, nil
}

func (s *Service) validate(ctx context.Context, req AccessionRequest) (accession.Details, error) {
	details, err := req.details()
	if err != nil {
		return accession.Details{}, shared.NewDomainError("INVALID_DATE", "Transfer date must be YYYY-MM-DD")
	}
	if details.DonorID != nil {
		if _, err := s.donors.FindByID(ctx, *details.DonorID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return accession.Details{}, shared.NewDomainError("INVALID_DONOR", "Donor not found")
			}
			return accession.Details{}, err
		}
	}
	if details.ArchivalUnitID != nil {
		if _, err := s.units.FindByID(ctx, *details.ArchivalUnitID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return accession.Details{}, shared.NewDomainError("INVALID_UNIT", "Archival unit not found")
			}
			return accession.Details{}, err
		}
	}
	return details, nil
}
