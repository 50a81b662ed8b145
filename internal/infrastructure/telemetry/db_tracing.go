package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	IncludeVars     bool // include bind variables in spans, dev only
	SlowQueryThresh time.Duration
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm and a slow query hook that logs and
// tags the span of any statement slower than SlowQueryThresh
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVars {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.SlowQueryThresh
	if thresh <= 0 {
		thresh = 200 * time.Millisecond
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed < thresh {
			return
		}
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
		fields := []zap.Field{
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", tx.Statement.RowsAffected),
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			fields = append(fields, zap.Error(tx.Error))
		}
		logger.Warn("slow query", fields...)
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("ams_timing:before_create", before) },
		func() error { return cb.Create().After("gorm:create").Register("ams_timing:after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("ams_timing:before_query", before) },
		func() error { return cb.Query().After("gorm:query").Register("ams_timing:after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("ams_timing:before_update", before) },
		func() error { return cb.Update().After("gorm:update").Register("ams_timing:after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("ams_timing:before_delete", before) },
		func() error { return cb.Delete().After("gorm:delete").Register("ams_timing:after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("ams_timing:before_row", before) },
		func() error { return cb.Row().After("gorm:row").Register("ams_timing:after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("ams_timing:before_raw", before) },
		func() error { return cb.Raw().After("gorm:raw").Register("ams_timing:after_raw", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", thresh))
	return nil
}
