package research

import (
	"context"
	"strings"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/research"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Researcher errors
var (
	ErrEmailTaken       = shared.NewDomainError("EMAIL_ALREADY_EXISTS", "A researcher with this email is already registered")
	ErrResearcherActive = shared.NewDomainError("RESEARCHER_IN_USE", "Researcher has open research requests")
)

// ResearcherService handles reading room registrations
type ResearcherService struct {
	repo     research.ResearcherRepository
	requests research.RequestRepository
	logger   *zap.Logger
}

// NewResearcherService creates a researcher service
func NewResearcherService(repo research.ResearcherRepository, requests research.RequestRepository, logger *zap.Logger) *ResearcherService {
	return &ResearcherService{repo: repo, requests: requests, logger: logger}
}

// Create registers a researcher awaiting approval
func (s *ResearcherService) Create(ctx context.Context, req ResearcherRequest) (*ResearcherResponse, error) {
	if err := s.checkEmail(ctx, req.Email, nil); err != nil {
		return nil, err
	}
	r, err := research.NewResearcher(req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToResearcherResponse(r), nil
}

// GetByID returns a researcher
func (s *ResearcherService) GetByID(ctx context.Context, id uuid.UUID) (*ResearcherResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResearcherResponse(r), nil
}

// List returns a page of researchers
func (s *ResearcherService) List(ctx context.Context, filter ResearcherListFilter) (common.ListResult[ResearcherListResponse], error) {
	f := filter.Filter()
	if filter.Approved != nil {
		f.Filters["approved"] = *filter.Approved
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[ResearcherListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[ResearcherListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToResearcherListResponse), nil
}

// Update replaces a researcher's profile
func (s *ResearcherService) Update(ctx context.Context, id uuid.UUID, req ResearcherRequest) (*ResearcherResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, req.Email, &id); err != nil {
		return nil, err
	}
	if err := r.Update(req.profile()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToResearcherResponse(r), nil
}

// Approve admits a researcher to the reading room
func (s *ResearcherService) Approve(ctx context.Context, id uuid.UUID, req ApproveResearcherRequest) (*ResearcherResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Approve(req.CardNumber); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Researcher approved",
		zap.String("researcher_id", r.ID.String()),
		zap.String("card_number", r.CardNumber))
	return ToResearcherResponse(r), nil
}

// Delete removes a researcher without open requests
func (s *ResearcherService) Delete(ctx context.Context, id uuid.UUID) error {
	open, err := s.requests.CountOpenByResearcher(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrResearcherActive
	}
	return s.repo.Delete(ctx, id)
}

func (s *ResearcherService) checkEmail(ctx context.Context, email string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}
	return nil
}
