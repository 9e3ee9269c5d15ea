package infrastructure

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type gormUserPathRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormUserPathRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.UserPathRepository {
	return &gormUserPathRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormUserPathRepository) Create(ctx context.Context, path domain.UserPath) error {
	points := path.Points
	path.Points = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&path).Error; err != nil {
			return err
		}
		if len(points) == 0 {
			return nil
		}
		for i := range points {
			points[i].UserPathID = path.ID
		}
		return tx.CreateInBatches(&points, domain.PointBatchSize).Error
	})
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to save user path", err, map[string]interface{}{
			"path_id": path.ID,
			"points":  len(points),
		})
		return err
	}

	pkgApp.LogDebug(ctx, r.logger, "user path saved", map[string]interface{}{
		"path_id": path.ID,
		"points":  len(points),
	})
	return nil
}

func (r *gormUserPathRepository) Recent(ctx context.Context, limit int) ([]domain.UserPath, error) {
	var paths []domain.UserPath
	err := r.withPoints(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&paths).Error
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list recent paths", err, map[string]interface{}{"limit": limit})
		return nil, err
	}
	return paths, nil
}

func (r *gormUserPathRepository) WithTransportEndingAfter(ctx context.Context, since time.Time) ([]domain.UserPath, error) {
	var paths []domain.UserPath
	err := r.withPoints(ctx).
		Where("transport_id IS NOT NULL AND ends_at >= ?", since.UTC()).
		Order("starts_at").
		Order("id").
		Find(&paths).Error
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list car paths", err, map[string]interface{}{"since": since})
		return nil, err
	}
	return paths, nil
}

func (r *gormUserPathRepository) withPoints(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Points", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	})
}
