package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-pathshare/pkg/application"
	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type simpleQueryBus[Q domain.Query[D], D any, R any] struct {
	handlers map[string]application.QueryHandler[Q, D, R]
	mu       sync.RWMutex
	logger   application.AppLogger
}

// NewSimpleQueryBus runs each query on its own goroutine and gives up when ctx ends.
func NewSimpleQueryBus[Q domain.Query[D], D any, R any](logger application.AppLogger) application.QueryBus[Q, D, R] {
	return &simpleQueryBus[Q, D, R]{
		handlers: make(map[string]application.QueryHandler[Q, D, R]),
		logger:   logger,
	}
}

func (bus *simpleQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[queryName] = handler
}

func (bus *simpleQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	bus.mu.RLock()
	handler, found := bus.handlers[query.QueryName()]
	bus.mu.RUnlock()

	var zero R
	if !found {
		return zero, fmt.Errorf("query %s: %w", query.QueryName(), ErrNoHandler)
	}

	type result struct {
		value R
		err   error
	}
	resultChan := make(chan result, 1)

	go func() {
		value, err := handler.Handle(ctx, query)
		resultChan <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		application.LogError(ctx, bus.logger, "query abandoned", ctx.Err(), map[string]interface{}{
			"query_name": query.QueryName(),
		})
		return zero, ctx.Err()
	case res := <-resultChan:
		return res.value, res.err
	}
}
