package domain

// Command is a request to change state, routed by name.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
