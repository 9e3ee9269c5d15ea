package domain

// Query is a read request, routed by name.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
