package infrastructure

import (
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// UUIDGenerator is the default IDGenerator for aggregates.
func UUIDGenerator() domain.IDGenerator[string] {
	return GenerateUUID
}
