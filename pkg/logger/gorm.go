package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

// GormLogger routes gorm's logging interface onto the slog logger, tagging
// queries slower than SlowThreshold.
type GormLogger struct {
	Level         logger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger(level logger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{Level: level, SlowThreshold: slowThreshold}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.Level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= logger.Info {
		Log.Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= logger.Warn {
		Log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= logger.Error {
		Log.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs each executed statement with its duration and row count
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && g.Level >= logger.Error:
		Log.Error("consulta fallida", append(attrs, slog.String("error", err.Error()))...)
	case g.SlowThreshold > 0 && elapsed > g.SlowThreshold && g.Level >= logger.Warn:
		Log.Warn("consulta lenta", attrs...)
	case g.Level >= logger.Info:
		Log.Info("consulta", attrs...)
	}
}
