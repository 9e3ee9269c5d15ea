package infrastructure

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	accountDomain "github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func testLogger(t *testing.T) pkgApp.AppLogger {
	return zapAdapter.NewFromZap(zaptest.NewLogger(t))
}

func openDB(t *testing.T) *gorm.DB {
	db, err := infrastructure.OpenDatabase("sqlite", filepath.Join(t.TempDir(), "transport.db"), testLogger(t),
		&accountDomain.User{}, &domain.Transport{})
	require.NoError(t, err)
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, db.Create(&accountDomain.User{ID: id, Username: "user-" + id, PasswordHash: "x"}).Error)
	}
	return db
}

func TestTransportRepositories(t *testing.T) {
	repos := map[string]domain.TransportRepository{
		"memory": NewInMemoryTransportRepository(testLogger(t)),
		"gorm":   NewGormTransportRepository(openDB(t), testLogger(t)),
	}

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := domain.Transport{ID: "t1", UserID: "u1", Model: "Lada", Seats: 3, Music: true, CreatedAt: base}
			second := domain.Transport{ID: "t2", UserID: "u1", Model: "Kia", Seats: 4, CreatedAt: base.Add(time.Minute)}
			other := domain.Transport{ID: "t3", UserID: "u2", Model: "UAZ", Seats: 5, CreatedAt: base}
			for _, tr := range []domain.Transport{second, first, other} {
				require.NoError(t, repo.Save(ctx, tr))
			}

			mine, err := repo.FindByOwner(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, mine, 2)
			assert.Equal(t, "t1", mine[0].ID)
			assert.True(t, mine[0].Music)
			assert.Equal(t, "t2", mine[1].ID)

			got, err := repo.FindByID(ctx, "t3")
			require.NoError(t, err)
			assert.Equal(t, "u2", got.UserID)

			assert.ErrorIs(t, repo.Delete(ctx, "t3", "u1"), domain.ErrTransportNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, "nope", "u1"), domain.ErrTransportNotFound)
			require.NoError(t, repo.Delete(ctx, "t1", "u1"))

			_, err = repo.FindByID(ctx, "t1")
			assert.ErrorIs(t, err, domain.ErrTransportNotFound)
		})
	}
}

func TestTransportsCascadeWithOwner(t *testing.T) {
	db := openDB(t)
	repo := NewGormTransportRepository(db, testLogger(t))
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, domain.Transport{ID: "t1", UserID: "u1", Seats: 1}))

	require.NoError(t, db.Delete(&accountDomain.User{ID: "u1"}).Error)

	_, err := repo.FindByID(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrTransportNotFound)
}
