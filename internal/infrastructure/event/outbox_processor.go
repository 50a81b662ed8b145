package event

import (
	"context"
	"sync"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcome labels reported to OutboxMetrics
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeDead   = "dead"
)

// OutboxMetrics receives one observation per processed entry
type OutboxMetrics interface {
	RecordDelivery(ctx context.Context, eventType, outcome string, duration time.Duration)
}

// OutboxProcessorConfig holds configuration for the outbox processor
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
	// VisibilityTimeout is how long an entry may stay claimed before another
	// batch treats its delivery as interrupted. Zero disables reclaiming.
	VisibilityTimeout time.Duration
}

// outcomeWriteTimeout bounds the write that records a delivery outcome
const outcomeWriteTimeout = 5 * time.Second

// DefaultOutboxProcessorConfig returns default configuration
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:         100,
		PollInterval:      time.Second,
		CleanupEnabled:    true,
		CleanupRetention:  7 * 24 * time.Hour,
		CleanupInterval:   time.Hour,
		VisibilityTimeout: 5 * time.Minute,
	}
}

// OutboxProcessor is the indexing task worker: it polls the outbox, claims
// entries, hands them to the event bus and records the outcome
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	eventBus   shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger
	metrics    OutboxMetrics
	tracer     trace.Tracer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxProcessor creates a new outbox processor
func NewOutboxProcessor(
	repo shared.OutboxRepository,
	eventBus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:       repo,
		eventBus:   eventBus,
		serializer: serializer,
		config:     config,
		logger:     logger,
		tracer:     otel.Tracer("github.com/ams/backend/outbox"),
	}
}

// SetMetrics installs a delivery metrics recorder
func (p *OutboxProcessor) SetMetrics(m OutboxMetrics) {
	p.metrics = m
}

// Start launches the poll loop and, if enabled, the cleanup loop
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the current batch to finish
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch handles one batch of pending entries and one batch of
// retry-due entries. It returns how many entries were claimed.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) int {
	processed := 0

	if p.config.VisibilityTimeout > 0 {
		p.reclaimStale(ctx)
	}

	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find pending entries", zap.Error(err))
		return processed
	}
	processed += p.processEntries(ctx, pending)

	retryable, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find retryable entries", zap.Error(err))
		return processed
	}
	processed += p.processEntries(ctx, retryable)

	return processed
}

// Drain processes batches until nothing is claimable or ctx ends
func (p *OutboxProcessor) Drain(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		n := p.ProcessBatch(ctx)
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

func (p *OutboxProcessor) processEntries(ctx context.Context, entries []*shared.OutboxEntry) int {
	if len(entries) == 0 {
		return 0
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to mark entries as processing", zap.Error(err))
		return 0
	}

	for i, entry := range claimed {
		if ctx.Err() != nil {
			p.release(ctx, claimed[i:])
			break
		}
		p.processEntry(ctx, entry)
	}
	return len(claimed)
}

func (p *OutboxProcessor) reclaimStale(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.VisibilityTimeout)
	reclaimed, err := p.repo.ReclaimStale(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to reclaim stale entries", zap.Error(err))
		return
	}
	if reclaimed > 0 {
		p.logger.Warn("reclaimed stale outbox entries",
			zap.Int64("reclaimed", reclaimed),
			zap.Time("cutoff", cutoff),
		)
	}
}

// release hands undelivered entries back to the queue on shutdown
func (p *OutboxProcessor) release(ctx context.Context, entries []*shared.OutboxEntry) {
	for _, entry := range entries {
		entry.Release()
		p.persist(ctx, entry, "failed to release entry")
	}
}

// persist writes an outcome even after ctx was cancelled so a stopping
// worker does not leave the entry claimed
func (p *OutboxProcessor) persist(ctx context.Context, entry *shared.OutboxEntry, msg string) bool {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), outcomeWriteTimeout)
	defer cancel()
	if err := p.repo.Update(writeCtx, entry); err != nil {
		p.logger.Error(msg,
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry *shared.OutboxEntry) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "outbox.deliver", trace.WithAttributes(
		attribute.String("event.type", entry.EventType),
		attribute.String("event.id", entry.EventID.String()),
		attribute.String("aggregate.type", entry.AggregateType),
		attribute.String("aggregate.id", entry.AggregateID.String()),
		attribute.Int("retry.count", entry.RetryCount),
	))
	defer span.End()

	event, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.eventBus.Publish(ctx, event)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if ctx.Err() != nil {
			// interrupted by shutdown, not a failed attempt
			p.release(ctx, []*shared.OutboxEntry{entry})
			return
		}
		p.fail(ctx, entry, err, start)
		return
	}

	entry.MarkSent()
	p.record(ctx, entry.EventType, OutcomeSent, start)
	if !p.persist(ctx, entry, "failed to mark entry as sent") {
		return
	}
	p.logger.Debug("event delivered",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)
}

func (p *OutboxProcessor) fail(ctx context.Context, entry *shared.OutboxEntry, cause error, start time.Time) {
	entry.MarkFailed(cause.Error())

	outcome := OutcomeFailed
	if entry.IsDead() {
		outcome = OutcomeDead
		p.logger.Warn("event moved to dead letter queue",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.String("aggregate_type", entry.AggregateType),
			zap.String("aggregate_id", entry.AggregateID.String()),
			zap.Int("retry_count", entry.RetryCount),
			zap.String("last_error", entry.LastError),
		)
	} else {
		p.logger.Error("event delivery failed",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(cause),
		)
	}
	p.record(ctx, entry.EventType, outcome, start)
	p.persist(ctx, entry, "failed to update entry")
}

func (p *OutboxProcessor) record(ctx context.Context, eventType, outcome string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordDelivery(ctx, eventType, outcome, time.Since(start))
	}
}

func (p *OutboxProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cleanup(ctx)
		}
	}
}

// Cleanup purges sent entries older than the retention window
func (p *OutboxProcessor) Cleanup(ctx context.Context) int64 {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to cleanup old entries", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		p.logger.Info("cleaned up old outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted
}
