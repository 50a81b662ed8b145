package research

import (
	"context"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/research"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContainerFinder loads requested containers
type ContainerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*container.Container, error)
}

// RequestService handles research requests and reading room deliveries
type RequestService struct {
	repo        research.RequestRepository
	researchers research.ResearcherRepository
	containers  ContainerFinder
	logger      *zap.Logger
}

// NewRequestService creates a research request service
func NewRequestService(
	repo research.RequestRepository,
	researchers research.ResearcherRepository,
	containers ContainerFinder,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{repo: repo, researchers: researchers, containers: containers, logger: logger}
}

// Create opens a request for an approved researcher
func (s *RequestService) Create(ctx context.Context, req CreateResearchRequestRequest) (*ResearchRequestResponse, error) {
	researcher, err := s.researchers.FindByID(ctx, req.ResearcherID)
	if err != nil {
		return nil, err
	}
	refs, err := s.references(ctx, req.ContainerIDs)
	if err != nil {
		return nil, err
	}
	r, err := research.NewResearchRequest(researcher, req.ContainerIDs, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return ToResearchRequestResponse(r, refs), nil
}

// GetByID returns a request with its items
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*ResearchRequestResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, r)
}

// List returns a page of requests
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) (common.ListResult[ResearchRequestListResponse], error) {
	f := filter.Filter()
	if filter.ResearcherID != nil {
		f.Filters["researcher_id"] = *filter.ResearcherID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[ResearchRequestListResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[ResearchRequestListResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToResearchRequestListResponse), nil
}

// Submit sends a new request to the reading room staff
func (s *RequestService) Submit(ctx context.Context, id uuid.UUID) (*ResearchRequestResponse, error) {
	return s.mutate(ctx, id, (*research.ResearchRequest).Submit)
}

// SetItemStatus records a delivery or return of a requested container
func (s *RequestService) SetItemStatus(ctx context.Context, id, itemID uuid.UUID, req ItemStatusRequest) (*ResearchRequestResponse, error) {
	return s.mutate(ctx, id, func(r *research.ResearchRequest) error {
		return r.SetItemStatus(itemID, research.ItemStatus(req.Status))
	})
}

// Finish closes a request once every container is back
func (s *RequestService) Finish(ctx context.Context, id uuid.UUID) (*ResearchRequestResponse, error) {
	return s.mutate(ctx, id, (*research.ResearchRequest).Finish)
}

// Cancel withdraws a request
func (s *RequestService) Cancel(ctx context.Context, id uuid.UUID) (*ResearchRequestResponse, error) {
	return s.mutate(ctx, id, (*research.ResearchRequest).Cancel)
}

func (s *RequestService) mutate(ctx context.Context, id uuid.UUID, fn func(*research.ResearchRequest) error) (*ResearchRequestResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Debug("Research request updated",
		zap.String("request_id", r.ID.String()),
		zap.String("status", string(r.Status)))
	return s.respond(ctx, r)
}

func (s *RequestService) respond(ctx context.Context, r *research.ResearchRequest) (*ResearchRequestResponse, error) {
	ids := make([]uuid.UUID, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ContainerID
	}
	refs, err := s.references(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToResearchRequestResponse(r, refs), nil
}

// references loads the reference code of each container; a missing
// container is an error
func (s *RequestService) references(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	refs := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if _, ok := refs[id]; ok {
			continue
		}
		c, err := s.containers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		refs[id] = c.ReferenceCode
	}
	return refs, nil
}
