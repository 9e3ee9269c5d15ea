package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mateusmacedo/go-pathshare/pkg/application"
)

type gormLoggerAdapter struct {
	appLogger     application.AppLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLoggerAdapter routes gorm's logs through the AppLogger. Statements run
// slower than slowThreshold are logged at info level, every other statement at trace.
func NewGormLoggerAdapter(appLogger application.AppLogger, slowThreshold time.Duration) gormlogger.Interface {
	return &gormLoggerAdapter{
		appLogger:     appLogger,
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (a *gormLoggerAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *a
	clone.level = level
	return &clone
}

func (a *gormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Info {
		a.appLogger.Info(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Warn {
		a.appLogger.Info(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Error {
		a.appLogger.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && a.level >= gormlogger.Error:
		application.LogError(ctx, a.appLogger, "sql statement failed", err, fields)
	case a.slowThreshold > 0 && elapsed > a.slowThreshold && a.level >= gormlogger.Warn:
		application.LogInfo(ctx, a.appLogger, "slow sql statement", fields)
	case a.level >= gormlogger.Info:
		application.LogTrace(ctx, a.appLogger, "sql statement", fields)
	}
}
