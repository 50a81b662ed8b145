package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryOutboxRepository keeps entries in a map and honours the claim rules
type memoryOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
	deleted time.Time
}

func newMemoryOutboxRepository() *memoryOutboxRepository {
	return &memoryOutboxRepository{entries: map[uuid.UUID]*shared.OutboxEntry{}}
}

func (r *memoryOutboxRepository) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		cp := *e
		r.entries[e.ID] = &cp
	}
	return nil
}

func (r *memoryOutboxRepository) filter(match func(*shared.OutboxEntry) bool, limit int) []*shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*shared.OutboxEntry
	for _, e := range r.entries {
		if match(e) && len(out) < limit {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memoryOutboxRepository) FindPending(_ context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return r.filter(func(e *shared.OutboxEntry) bool { return e.Status == shared.OutboxStatusPending }, limit), nil
}

func (r *memoryOutboxRepository) FindRetryable(_ context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return r.filter(func(e *shared.OutboxEntry) bool {
		return e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(before)
	}, limit), nil
}

func (r *memoryOutboxRepository) FindDead(_ context.Context, _, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	dead := r.filter(func(e *shared.OutboxEntry) bool { return e.IsDead() }, pageSize)
	return dead, int64(len(dead)), nil
}

func (r *memoryOutboxRepository) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memoryOutboxRepository) MarkProcessing(_ context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok || e.MarkProcessing() != nil {
			continue
		}
		cp := *e
		claimed = append(claimed, &cp)
	}
	return claimed, nil
}

func (r *memoryOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	// a cancelled context fails the write the way a database driver would
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *memoryOutboxRepository) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = before
	var n int64
	for id, e := range r.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryOutboxRepository) ReclaimStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusProcessing && e.UpdatedAt.Before(before) {
			e.MarkFailed("delivery interrupted")
			now := time.Now()
			e.NextRetryAt = &now
			n++
		}
	}
	return n, nil
}

func (r *memoryOutboxRepository) CountByStatus(_ context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[shared.OutboxStatus]int64{}
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *memoryOutboxRepository) get(id uuid.UUID) *shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

type deliveryRecord struct {
	eventType string
	outcome   string
}

type recordingMetrics struct {
	mu      sync.Mutex
	records []deliveryRecord
}

func (m *recordingMetrics) RecordDelivery(_ context.Context, eventType, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, deliveryRecord{eventType, outcome})
}

type processorFixture struct {
	repo      *memoryOutboxRepository
	bus       *InMemoryEventBus
	handler   *recordingHandler
	metrics   *recordingMetrics
	processor *OutboxProcessor
	enqueue   func(t *testing.T) *shared.OutboxEntry
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	serializer := NewEventSerializer()
	serializer.Register("RecordSaved", &recordSavedEvent{})

	f := &processorFixture{
		repo:    newMemoryOutboxRepository(),
		bus:     NewInMemoryEventBus(zap.NewNop()),
		handler: newRecordingHandler("RecordSaved"),
		metrics: &recordingMetrics{},
	}
	f.bus.Subscribe(f.handler)
	f.processor = NewOutboxProcessor(f.repo, f.bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	f.processor.SetMetrics(f.metrics)
	f.enqueue = func(t *testing.T) *shared.OutboxEntry {
		evt := newRecordSavedEvent("RecordSaved")
		payload, err := serializer.Serialize(evt)
		require.NoError(t, err)
		entry := shared.NewOutboxEntry(evt, payload)
		require.NoError(t, f.repo.Save(context.Background(), entry))
		return entry
	}
	return f
}

func TestOutboxProcessor_DeliversPendingEntries(t *testing.T) {
	f := newProcessorFixture(t)
	a := f.enqueue(t)
	b := f.enqueue(t)

	n := f.processor.ProcessBatch(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, f.handler.count())
	for _, e := range []*shared.OutboxEntry{a, b} {
		stored := f.repo.get(e.ID)
		assert.Equal(t, shared.OutboxStatusSent, stored.Status)
		assert.NotNil(t, stored.ProcessedAt)
	}
	assert.Len(t, f.metrics.records, 2)
	assert.Equal(t, OutcomeSent, f.metrics.records[0].outcome)
}

func TestOutboxProcessor_FailureSchedulesRetry(t *testing.T) {
	f := newProcessorFixture(t)
	f.handler.setError(errors.New("index down"))
	entry := f.enqueue(t)

	before := time.Now()
	f.processor.ProcessBatch(context.Background())

	stored := f.repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "index down")
	require.NotNil(t, stored.NextRetryAt)
	assert.WithinDuration(t, before.Add(time.Second), *stored.NextRetryAt, 500*time.Millisecond)
	assert.Equal(t, OutcomeFailed, f.metrics.records[0].outcome)
}

func TestOutboxProcessor_RetryDueEntryIsRedelivered(t *testing.T) {
	f := newProcessorFixture(t)
	f.handler.setError(errors.New("index down"))
	entry := f.enqueue(t)
	f.processor.ProcessBatch(context.Background())

	stored := f.repo.get(entry.ID)
	past := time.Now().Add(-time.Second)
	stored.NextRetryAt = &past
	require.NoError(t, f.repo.Update(context.Background(), stored))

	f.handler.setError(nil)
	n := f.processor.ProcessBatch(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, shared.OutboxStatusSent, f.repo.get(entry.ID).Status)
	assert.Equal(t, 2, f.handler.count())
}

func TestOutboxProcessor_DeadLettersAfterMaxRetries(t *testing.T) {
	f := newProcessorFixture(t)
	f.handler.setError(errors.New("index down"))
	entry := f.enqueue(t)

	stored := f.repo.get(entry.ID)
	stored.RetryCount = shared.DefaultMaxRetries - 1
	require.NoError(t, f.repo.Update(context.Background(), stored))

	f.processor.ProcessBatch(context.Background())

	assert.True(t, f.repo.get(entry.ID).IsDead())
	assert.Equal(t, OutcomeDead, f.metrics.records[0].outcome)
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	f := newProcessorFixture(t)
	entry := shared.NewOutboxEntry(newRecordSavedEvent("Unregistered"), []byte(`{}`))
	require.NoError(t, f.repo.Save(context.Background(), entry))

	f.processor.ProcessBatch(context.Background())

	stored := f.repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "Unregistered")
}

func TestOutboxProcessor_DrainEmptiesQueue(t *testing.T) {
	f := newProcessorFixture(t)
	for i := 0; i < 5; i++ {
		f.enqueue(t)
	}

	assert.Equal(t, 5, f.processor.Drain(context.Background()))
	assert.Equal(t, 0, f.processor.Drain(context.Background()))

	counts, err := f.repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts[shared.OutboxStatusSent])
}

func TestOutboxProcessor_CleanupRemovesOldSentEntries(t *testing.T) {
	f := newProcessorFixture(t)
	old := f.enqueue(t)
	fresh := f.enqueue(t)
	f.processor.Drain(context.Background())

	stored := f.repo.get(old.ID)
	longAgo := time.Now().Add(-30 * 24 * time.Hour)
	stored.ProcessedAt = &longAgo
	require.NoError(t, f.repo.Update(context.Background(), stored))

	assert.Equal(t, int64(1), f.processor.Cleanup(context.Background()))
	assert.Nil(t, f.repo.get(old.ID))
	assert.NotNil(t, f.repo.get(fresh.ID))
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	f := newProcessorFixture(t)
	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	f.processor.config = cfg
	entry := f.enqueue(t)

	require.NoError(t, f.processor.Start(context.Background()))
	assert.Eventually(t, func() bool {
		e := f.repo.get(entry.ID)
		return e != nil && e.Status == shared.OutboxStatusSent
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, f.processor.Stop(ctx))
}

// cancellingHandler stops the worker in the middle of a delivery
type cancellingHandler struct {
	cancel context.CancelFunc
}

func (h *cancellingHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.cancel()
	return ctx.Err()
}

func (*cancellingHandler) EventTypes() []string { return []string{"RecordSaved"} }

func TestOutboxProcessor_ShutdownReleasesClaimedEntries(t *testing.T) {
	f := newProcessorFixture(t)
	f.bus.Unsubscribe(f.handler)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopping := &cancellingHandler{cancel: cancel}
	f.bus.Subscribe(stopping)
	a := f.enqueue(t)
	b := f.enqueue(t)

	f.processor.ProcessBatch(ctx)

	for _, e := range []*shared.OutboxEntry{a, b} {
		stored := f.repo.get(e.ID)
		assert.Equal(t, shared.OutboxStatusPending, stored.Status)
		assert.Zero(t, stored.RetryCount)
	}

	// the next worker picks them up again
	f.bus.Unsubscribe(stopping)
	f.bus.Subscribe(f.handler)
	assert.Equal(t, 2, f.processor.ProcessBatch(context.Background()))
	assert.Equal(t, shared.OutboxStatusSent, f.repo.get(a.ID).Status)
	assert.Equal(t, shared.OutboxStatusSent, f.repo.get(b.ID).Status)
}

func TestOutboxProcessor_ReclaimsStaleClaims(t *testing.T) {
	f := newProcessorFixture(t)
	stale := f.enqueue(t)
	fresh := f.enqueue(t)
	_, err := f.repo.MarkProcessing(context.Background(), []uuid.UUID{stale.ID, fresh.ID})
	require.NoError(t, err)
	f.repo.mu.Lock()
	f.repo.entries[stale.ID].UpdatedAt = time.Now().Add(-10 * time.Minute)
	f.repo.mu.Unlock()

	n := f.processor.ProcessBatch(context.Background())

	assert.Equal(t, 1, n)
	got := f.repo.get(stale.ID)
	assert.Equal(t, shared.OutboxStatusSent, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	assert.Equal(t, 1, f.handler.count())
	// still inside the visibility timeout
	assert.Equal(t, shared.OutboxStatusProcessing, f.repo.get(fresh.ID).Status)
}

func TestOutboxProcessor_ReclaimDisabled(t *testing.T) {
	f := newProcessorFixture(t)
	f.processor.config.VisibilityTimeout = 0
	entry := f.enqueue(t)
	_, err := f.repo.MarkProcessing(context.Background(), []uuid.UUID{entry.ID})
	require.NoError(t, err)
	f.repo.mu.Lock()
	f.repo.entries[entry.ID].UpdatedAt = time.Now().Add(-time.Hour)
	f.repo.mu.Unlock()

	assert.Zero(t, f.processor.ProcessBatch(context.Background()))
	assert.Equal(t, shared.OutboxStatusProcessing, f.repo.get(entry.ID).Status)
}
