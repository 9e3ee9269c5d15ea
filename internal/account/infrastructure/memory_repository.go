package infrastructure

import (
	"context"
	"sync"

	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type InMemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byUsername map[string]string
	logger     pkgApp.AppLogger
}

func NewInMemoryUserRepository(logger pkgApp.AppLogger) *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:       make(map[string]domain.User),
		byUsername: make(map[string]string),
		logger:     logger,
	}
}

func (r *InMemoryUserRepository) Save(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		pkgApp.LogInfo(ctx, r.logger, "user already exists", map[string]interface{}{"username": user.Username})
		return domain.ErrUserExists
	}

	r.byID[user.ID] = user
	r.byUsername[user.Username] = user.ID
	pkgApp.LogDebug(ctx, r.logger, "user saved", map[string]interface{}{"user_id": user.ID})
	return nil
}

func (r *InMemoryUserRepository) FindByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}
