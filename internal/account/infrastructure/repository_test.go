package infrastructure

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/infrastructure"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func repositories(t *testing.T) map[string]domain.UserRepository {
	logger := zapAdapter.NewFromZap(zaptest.NewLogger(t))
	db, err := infrastructure.OpenDatabase("sqlite", filepath.Join(t.TempDir(), "accounts.db"), logger, &domain.User{})
	require.NoError(t, err)

	return map[string]domain.UserRepository{
		"memory": NewInMemoryUserRepository(logger),
		"gorm":   NewGormUserRepository(db, logger),
	}
}

func testLogger(t *testing.T) pkgApp.AppLogger {
	return zapAdapter.NewFromZap(zaptest.NewLogger(t))
}

func TestUserRepositories(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			alice := domain.User{
				ID:           "0b0f2a5e-7c43-4a8e-9a5e-1f8b3b2c9d01",
				Username:     "alice",
				Email:        "alice@example.com",
				PasswordHash: "hash",
				CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			}
			require.NoError(t, repo.Save(ctx, alice))

			dup := alice
			dup.ID = "d3c1c0de-0000-4000-8000-000000000002"
			assert.ErrorIs(t, repo.Save(ctx, dup), domain.ErrUserExists)

			byName, err := repo.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, byName.ID)
			assert.Equal(t, "hash", byName.PasswordHash)

			byID, err := repo.FindByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", byID.Username)

			_, err = repo.FindByUsername(ctx, "bob")
			assert.ErrorIs(t, err, domain.ErrUserNotFound)
			_, err = repo.FindByID(ctx, dup.ID)
			assert.ErrorIs(t, err, domain.ErrUserNotFound)
		})
	}
}
