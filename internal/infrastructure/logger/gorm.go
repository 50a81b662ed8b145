package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts zap to gorm's logger. Statements are logged at debug
// level and failures at error level with the request id. Slow statements
// are reported by the tracing callbacks instead.
type GormLogger struct {
	logger      *zap.Logger
	level       gormlogger.LogLevel
	logNotFound bool
}

// NewGormLogger creates a gorm logger writing to l
func NewGormLogger(l *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{logger: l.Named("gorm"), level: level}
}

// LogNotFound makes record-not-found errors visible; they are skipped by default
func (l *GormLogger) LogNotFound() *GormLogger {
	cp := *l
	cp.logNotFound = true
	return &cp
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.scoped(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.scoped(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.scoped(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	switch {
	case err != nil && l.level >= gormlogger.Error:
		if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
			return
		}
		sql, rows := fc()
		l.scoped(ctx).Error("sql failed",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", time.Since(begin)),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.scoped(ctx).Debug("sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", time.Since(begin)),
		)
	}
}

func (l *GormLogger) scoped(ctx context.Context) *zap.Logger {
	out := l.logger
	if id := GetRequestID(ctx); id != "" {
		out = out.With(zap.String("request_id", id))
	}
	return WithTraceContext(ctx, out)
}

// MapGormLogLevel maps an application log level to a gorm level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
