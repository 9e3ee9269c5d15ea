package application

import (
	"context"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type EventHandler[E domain.Event[T], T any] interface {
	Handle(ctx context.Context, event E) error
}

// EventBus fans events out to every handler registered for the event name.
type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D])
	Publish(ctx context.Context, event E) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc[E domain.Event[T], T any] func(ctx context.Context, event E) error

func (f EventHandlerFunc[E, T]) Handle(ctx context.Context, event E) error {
	return f(ctx, event)
}
