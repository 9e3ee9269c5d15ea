package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type gormTransportRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormTransportRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.TransportRepository {
	return &gormTransportRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormTransportRepository) Save(ctx context.Context, transport domain.Transport) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(&transport).Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to save transport", err, map[string]interface{}{
			"transport_id": transport.ID,
		})
		return err
	}
	return nil
}

func (r *gormTransportRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Transport{})
	if result.Error != nil {
		pkgApp.LogError(ctx, r.logger, "failed to delete transport", result.Error, map[string]interface{}{
			"transport_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransportNotFound
	}
	return nil
}

func (r *gormTransportRepository) FindByID(ctx context.Context, id string) (domain.Transport, error) {
	var transport domain.Transport
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&transport).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Transport{}, domain.ErrTransportNotFound
	}
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to find transport", err, map[string]interface{}{
			"transport_id": id,
		})
		return domain.Transport{}, err
	}
	return transport, nil
}

func (r *gormTransportRepository) FindByOwner(ctx context.Context, userID string) ([]domain.Transport, error) {
	var transports []domain.Transport
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&transports).Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list transports", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return transports, nil
}
