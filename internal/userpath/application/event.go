package application

import (
	"time"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const PathPublishedEventName = "PathPublished"

type PathPublishedData struct {
	PathID      string    `json:"path_id"`
	UserID      string    `json:"user_id"`
	TransportID string    `json:"transport_id,omitempty"`
	Points      int       `json:"points"`
	PublishedAt time.Time `json:"published_at"`
}

type pathPublishedEvent struct {
	data PathPublishedData
}

func (e pathPublishedEvent) EventName() string {
	return PathPublishedEventName
}

func (e pathPublishedEvent) Payload() PathPublishedData {
	return e.data
}

func NewPathPublishedEvent(data PathPublishedData) domain.Event[PathPublishedData] {
	return pathPublishedEvent{data: data}
}
