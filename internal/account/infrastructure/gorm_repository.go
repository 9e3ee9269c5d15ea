package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

// NewGormUserRepository expects the users table to be migrated already.
func NewGormUserRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.UserRepository {
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormUserRepository) Save(ctx context.Context, user domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrUserExists
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = domain.ErrUserExists
	}
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			pkgApp.LogError(ctx, r.logger, "failed to save user", err, map[string]interface{}{
				"username": user.Username,
			})
		}
		return err
	}

	pkgApp.LogDebug(ctx, r.logger, "user saved", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where(query, arg).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to find user", err, map[string]interface{}{
			"query": query,
		})
		return domain.User{}, err
	}
	return user, nil
}
