package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the daily trigger
type CronTriggerConfig struct {
	Hour   int
	Minute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns the default daily trigger at 03:30
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		Hour:          3,
		Minute:        30,
		CheckInterval: time.Minute,
	}
}

// ParseCronSchedule reads the minute and hour fields of a daily cron
// expression ("30 3 * * *"). The remaining fields must be wildcards.
func ParseCronSchedule(expr string) (CronTriggerConfig, error) {
	cfg := DefaultCronTriggerConfig()
	parts := strings.Fields(expr)
	if len(parts) == 0 {
		return cfg, nil
	}
	if len(parts) != 5 {
		return cfg, fmt.Errorf("%w: expected 5 fields, got %d", ErrInvalidSchedule, len(parts))
	}
	for _, p := range parts[2:] {
		if p != "*" {
			return cfg, fmt.Errorf("%w: only daily schedules are supported", ErrInvalidSchedule)
		}
	}

	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return cfg, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidSchedule, parts[0])
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return cfg, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidSchedule, parts[1])
	}
	cfg.Hour = hour
	cfg.Minute = minute
	return cfg, nil
}

// CronTrigger submits a full reconcile once a day
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a new daily trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the trigger loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Reconcile trigger started",
		zap.Int("hour", c.config.Hour),
		zap.Int("minute", c.config.Minute),
		zap.Duration("check_interval", c.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Reconcile trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits at most one job per calendar day, at the
// configured minute
func (c *CronTrigger) checkAndTrigger() bool {
	now := c.now()
	if now.Hour() != c.config.Hour || now.Minute() != c.config.Minute {
		return false
	}
	today := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == today {
		c.mu.Unlock()
		return false
	}
	c.lastRunDate = today
	c.mu.Unlock()

	job, err := c.scheduler.ScheduleReconcile(TriggerSchedule)
	if err != nil {
		c.logger.Error("Failed to schedule catalog reconcile", zap.Error(err))
		return false
	}
	c.logger.Info("Scheduled catalog reconcile", zap.String("job_id", job.ID.String()))
	return true
}
