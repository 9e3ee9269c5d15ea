package application

import (
	"time"

	mapDomain "github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const PublishPathCommandName = "PublishPath"

// PublishPathData is a path to persist. Zero times default to the publish time.
type PublishPathData struct {
	ID          string
	UserID      string
	TransportID string
	StartsAt    time.Time
	EndsAt      time.Time
	Points      []mapDomain.MapPoint
}

type publishPathCommand struct {
	data PublishPathData
}

func (c publishPathCommand) CommandName() string {
	return PublishPathCommandName
}

func (c publishPathCommand) Payload() PublishPathData {
	return c.data
}

func NewPublishPathCommand(data PublishPathData) domain.Command[PublishPathData] {
	return publishPathCommand{data: data}
}
