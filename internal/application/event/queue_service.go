// Package event exposes the indexing task queue to operators: dead letters
// can be inspected and re-queued, and queue depth is reported per status.
package event

import (
	"context"
	"errors"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTaskNotFound is returned for an unknown task id
var ErrTaskNotFound = shared.NewDomainError("TASK_NOT_FOUND", "Indexing task not found")

// retryBatchSize is how many dead tasks RetryAll resets per round trip
const retryBatchSize = 100

// QueueService manages the outbox that feeds the catalog indexer
type QueueService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewQueueService creates a queue service
func NewQueueService(repo shared.OutboxRepository, logger *zap.Logger) *QueueService {
	return &QueueService{repo: repo, logger: logger}
}

// DeadLetters lists tasks that exhausted their retries
func (s *QueueService) DeadLetters(ctx context.Context, filter QueueFilter) (common.ListResult[TaskResponse], error) {
	f := common.ListParams{Page: filter.Page, PageSize: filter.PageSize}.Filter()
	entries, total, err := s.repo.FindDead(ctx, f.Page, f.PageSize)
	if err != nil {
		s.logger.Error("Failed to load dead letters", zap.Error(err))
		return common.ListResult[TaskResponse]{}, err
	}
	items := make([]TaskResponse, len(entries))
	for i, e := range entries {
		items[i] = ToTaskResponse(e)
	}
	return common.ListResult[TaskResponse]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Get returns one task
func (s *QueueService) Get(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaskResponse(entry)
	return &resp, nil
}

// Retry puts a dead task back in the queue
func (s *QueueService) Retry(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError("INVALID_STATUS", err.Error())
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Dead indexing task re-queued",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType))
	resp := ToTaskResponse(entry)
	return &resp, nil
}

// RetryAll re-queues every dead task. Reset tasks leave the dead set, so
// the first page is read until it comes back empty or nothing could be reset.
func (s *QueueService) RetryAll(ctx context.Context) (*RetryAllResponse, error) {
	var requeued int64
	for {
		entries, _, err := s.repo.FindDead(ctx, 1, retryBatchSize)
		if err != nil {
			return &RetryAllResponse{Requeued: requeued}, err
		}
		var round int64
		for _, entry := range entries {
			if entry.ResetForRetry() != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Error("Failed to re-queue task", zap.String("id", entry.ID.String()), zap.Error(err))
				continue
			}
			round++
		}
		requeued += round
		if round == 0 || len(entries) < retryBatchSize {
			break
		}
	}
	s.logger.Info("Dead indexing tasks re-queued", zap.Int64("count", requeued))
	return &RetryAllResponse{Requeued: requeued}, nil
}

// Stats counts tasks per status
func (s *QueueService) Stats(ctx context.Context) (*QueueStatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &QueueStatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *QueueService) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if entry == nil {
		return nil, ErrTaskNotFound
	}
	return entry, nil
}
