package domain

// Event records something that already happened.
type Event[T any] interface {
	EventName() string
	Payload() T
}
