package infrastructure

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

type InMemoryTransportRepository struct {
	mu     sync.RWMutex
	data   map[string]domain.Transport
	logger pkgApp.AppLogger
}

func NewInMemoryTransportRepository(logger pkgApp.AppLogger) *InMemoryTransportRepository {
	return &InMemoryTransportRepository{
		data:   make(map[string]domain.Transport),
		logger: logger,
	}
}

func (r *InMemoryTransportRepository) Save(ctx context.Context, transport domain.Transport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[transport.ID]; exists {
		return errors.New("transport already exists")
	}
	r.data[transport.ID] = transport
	pkgApp.LogDebug(ctx, r.logger, "transport saved", map[string]interface{}{"transport_id": transport.ID})
	return nil
}

func (r *InMemoryTransportRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transport, exists := r.data[id]
	if !exists || transport.UserID != userID {
		return domain.ErrTransportNotFound
	}
	delete(r.data, id)
	pkgApp.LogDebug(ctx, r.logger, "transport deleted", map[string]interface{}{"transport_id": id})
	return nil
}

func (r *InMemoryTransportRepository) FindByID(_ context.Context, id string) (domain.Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transport, exists := r.data[id]
	if !exists {
		return domain.Transport{}, domain.ErrTransportNotFound
	}
	return transport, nil
}

func (r *InMemoryTransportRepository) FindByOwner(_ context.Context, userID string) ([]domain.Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var transports []domain.Transport
	for _, t := range r.data {
		if t.UserID == userID {
			transports = append(transports, t)
		}
	}
	sort.Slice(transports, func(i, j int) bool {
		if transports[i].CreatedAt.Equal(transports[j].CreatedAt) {
			return transports[i].ID < transports[j].ID
		}
		return transports[i].CreatedAt.Before(transports[j].CreatedAt)
	})
	return transports, nil
}
