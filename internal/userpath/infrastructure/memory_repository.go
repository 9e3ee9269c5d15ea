package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type InMemoryUserPathRepository struct {
	mu     sync.RWMutex
	paths  []domain.UserPath
	logger pkgApp.AppLogger
}

func NewInMemoryUserPathRepository(logger pkgApp.AppLogger) *InMemoryUserPathRepository {
	return &InMemoryUserPathRepository{logger: logger}
}

func (r *InMemoryUserPathRepository) Create(ctx context.Context, path domain.UserPath) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths = append(r.paths, clonePath(path))
	pkgApp.LogDebug(ctx, r.logger, "user path saved", map[string]interface{}{
		"path_id": path.ID,
		"points":  len(path.Points),
	})
	return nil
}

// Recent orders by creation time, then by insertion order.
func (r *InMemoryUserPathRepository) Recent(_ context.Context, limit int) ([]domain.UserPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]int, len(r.paths))
	for i := range ordered {
		ordered[i] = len(r.paths) - 1 - i
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return r.paths[ordered[a]].CreatedAt.After(r.paths[ordered[b]].CreatedAt)
	})

	if limit > len(ordered) {
		limit = len(ordered)
	}
	out := make([]domain.UserPath, 0, limit)
	for _, idx := range ordered[:limit] {
		out = append(out, clonePath(r.paths[idx]))
	}
	return out, nil
}

func (r *InMemoryUserPathRepository) WithTransportEndingAfter(_ context.Context, since time.Time) ([]domain.UserPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.UserPath
	for _, p := range r.paths {
		if p.TransportID != nil && !p.EndsAt.Before(since) {
			out = append(out, clonePath(p))
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].StartsAt.Before(out[b].StartsAt)
	})
	return out, nil
}

// DeleteTransport mirrors ON DELETE SET NULL for callers that remove transports.
func (r *InMemoryUserPathRepository) DeleteTransport(transportID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.paths {
		if r.paths[i].TransportID != nil && *r.paths[i].TransportID == transportID {
			r.paths[i].TransportID = nil
		}
	}
}

func (r *InMemoryUserPathRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.paths)
}

func clonePath(p domain.UserPath) domain.UserPath {
	p.Points = append([]domain.PathPoint(nil), p.Points...)
	if p.TransportID != nil {
		id := *p.TransportID
		p.TransportID = &id
	}
	return p
}
