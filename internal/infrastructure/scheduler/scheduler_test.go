package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ams/backend/internal/application/indexing"
	"github.com/ams/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingExecutor struct {
	calls    atomic.Int32
	failures int32
	mu       sync.Mutex
	types    [][]catalog.DocumentType
}

func (e *countingExecutor) Execute(_ context.Context, job *Job) error {
	n := e.calls.Add(1)
	e.mu.Lock()
	e.types = append(e.types, job.Types)
	e.mu.Unlock()
	if n <= e.failures {
		return errors.New("redis unavailable")
	}
	return nil
}

func startScheduler(t *testing.T, cfg SchedulerConfig, exec JobExecutor) *Scheduler {
	t.Helper()
	s := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(TriggerManual, 1, catalog.DocumentTypeIsaar)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.True(t, job.ShouldRetry())
	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Empty(t, job.Error)

	job.Start()
	job.Fail("boom again")
	assert.False(t, job.ShouldRetry())

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
}

func TestScheduler_SubmitWhenStopped(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), &countingExecutor{}, zap.NewNop())
	_, err := s.ScheduleReconcile(TriggerManual)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
	assert.False(t, s.IsRunning())
}

func TestScheduler_RunsSubmittedJob(t *testing.T) {
	exec := &countingExecutor{}
	s := startScheduler(t, DefaultSchedulerConfig(), exec)

	_, err := s.ScheduleReconcile(TriggerManual, catalog.DocumentTypeFindingAids)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return exec.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.Equal(t, []catalog.DocumentType{catalog.DocumentTypeFindingAids}, exec.types[0])
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	exec := &countingExecutor{failures: 1}
	cfg := DefaultSchedulerConfig()
	cfg.RetryDelay = 10 * time.Millisecond
	s := startScheduler(t, cfg, exec)

	_, err := s.ScheduleReconcile(TriggerSchedule)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return exec.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_GivesUpAfterRetryAttempts(t *testing.T) {
	exec := &countingExecutor{failures: 100}
	cfg := DefaultSchedulerConfig()
	cfg.RetryAttempts = 1
	cfg.RetryDelay = time.Millisecond
	s := startScheduler(t, cfg, exec)

	_, err := s.ScheduleReconcile(TriggerSchedule)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return exec.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(2), exec.calls.Load())
}

func TestScheduler_QueueFull(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.QueueSize = 1
	block := make(chan struct{})
	exec := executorFunc(func(ctx context.Context, _ *Job) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	})
	s := startScheduler(t, cfg, exec)
	defer close(block)

	// first is picked up by the worker, second fills the queue
	_, err := s.ScheduleReconcile(TriggerManual)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(s.jobs) == 0 }, time.Second, time.Millisecond)
	_, err = s.ScheduleReconcile(TriggerManual)
	require.NoError(t, err)

	_, err = s.ScheduleReconcile(TriggerManual)
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

type executorFunc func(ctx context.Context, job *Job) error

func (f executorFunc) Execute(ctx context.Context, job *Job) error { return f(ctx, job) }

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		expr       string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"30 3 * * *", 3, 30, false},
		{"0 0 * * *", 0, 0, false},
		{"  15   4   *   *   *  ", 4, 15, false},
		{"", 3, 30, false},
		{"60 3 * * *", 0, 0, true},
		{"0 24 * * *", 0, 0, true},
		{"0 3 * * 1", 0, 0, true},
		{"0 3", 0, 0, true},
		{"x 3 * * *", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			cfg, err := ParseCronSchedule(tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, cfg.Hour)
			assert.Equal(t, tt.wantMinute, cfg.Minute)
		})
	}
}

func TestCronTrigger_FiresOncePerDay(t *testing.T) {
	exec := &countingExecutor{}
	s := startScheduler(t, DefaultSchedulerConfig(), exec)

	trigger := NewCronTrigger(CronTriggerConfig{Hour: 3, Minute: 30}, s, zap.NewNop())
	clock := time.Date(2026, 3, 1, 3, 29, 0, 0, time.UTC)
	trigger.now = func() time.Time { return clock }

	assert.False(t, trigger.checkAndTrigger(), "before the configured minute")

	clock = clock.Add(time.Minute)
	assert.True(t, trigger.checkAndTrigger())
	assert.False(t, trigger.checkAndTrigger(), "same day")

	clock = clock.Add(24 * time.Hour)
	assert.True(t, trigger.checkAndTrigger(), "next day")

	require.Eventually(t, func() bool { return exec.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestCronTrigger_StartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), &countingExecutor{}, zap.NewNop())
	trigger := NewCronTrigger(CronTriggerConfig{CheckInterval: 5 * time.Millisecond}, s, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}

type fakeReindexer struct {
	reports []indexing.ReindexReport
	err     error
	got     []catalog.DocumentType
}

func (f *fakeReindexer) Reindex(_ context.Context, types ...catalog.DocumentType) ([]indexing.ReindexReport, error) {
	f.got = types
	return f.reports, f.err
}

func TestReconcileExecutor(t *testing.T) {
	t.Run("passes types through", func(t *testing.T) {
		r := &fakeReindexer{reports: []indexing.ReindexReport{{Type: catalog.DocumentTypeIsaar, Indexed: 3}}}
		exec := NewReconcileExecutor(r, zap.NewNop())

		err := exec.Execute(context.Background(), NewJob(TriggerManual, 0, catalog.DocumentTypeIsaar))
		require.NoError(t, err)
		assert.Equal(t, []catalog.DocumentType{catalog.DocumentTypeIsaar}, r.got)
	})

	t.Run("returns reindex failure", func(t *testing.T) {
		r := &fakeReindexer{err: errors.New("index down")}
		exec := NewReconcileExecutor(r, zap.NewNop())

		err := exec.Execute(context.Background(), NewJob(TriggerSchedule, 0))
		assert.EqualError(t, err, "index down")
		assert.Empty(t, r.got)
	})
}
