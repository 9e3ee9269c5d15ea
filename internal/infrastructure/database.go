package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-pathshare/internal/config"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	gormAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/gorm/adapter"
)

const slowQueryThreshold = 200 * time.Millisecond

// OpenDatabase connects with the configured driver and migrates models.
func OpenDatabase(driver, dsn string, logger pkgApp.AppLogger, models ...interface{}) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DBDriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DBDriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormAdapter.NewGormLoggerAdapter(logger, slowQueryThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pkgApp.LogInfo(context.Background(), logger, "database ready", map[string]interface{}{
		"driver": driver,
		"models": len(models),
	})
	return db, nil
}

// sqliteDSN turns on foreign keys so ON DELETE clauses are honoured.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
