package logging

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emanuelaromano/book-manager/internal/database"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger sends gorm output to logrus. Slow queries are warnings, failed
// queries errors; missing rows and unique violations are expected outcomes
// and only show at debug.
type GormLogger struct {
	log           *logrus.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(log *logrus.Logger) *GormLogger {
	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}
	return &GormLogger{log: log, level: level, slowThreshold: defaultSlowThreshold}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		g.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		g.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		g.log.WithContext(ctx).Errorf(msg, args...)
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := g.log.WithContext(ctx).WithFields(logrus.Fields{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": elapsed.Milliseconds(),
	})

	switch {
	case err != nil && (errors.Is(err, gorm.ErrRecordNotFound) || database.IsUniqueViolation(err)):
		entry.WithError(err).Debug("query")
	case err != nil && g.level >= logger.Error:
		entry.WithError(err).Error("query failed")
	case elapsed > g.slowThreshold && g.level >= logger.Warn:
		entry.Warn("slow query")
	case g.level >= logger.Info:
		entry.Debug("query")
	}
}
