package domain

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/mateusmacedo/go-pathshare/internal/account/domain"
	mapDomain "github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	transportDomain "github.com/mateusmacedo/go-pathshare/internal/transport/domain"
)

const (
	// PointBatchSize is how many path points go into one INSERT.
	PointBatchSize     = 200
	DefaultRecentPaths = 6
)

var (
	ErrTransportNotOwned = errors.New("transport does not belong to the user")
	ErrInvalidTimes      = errors.New("ends_at is before starts_at")
)

// UserPath is a published journey. Points are kept in publication order.
type UserPath struct {
	ID          string                     `json:"id" gorm:"primaryKey;size:36"`
	UserID      string                     `json:"user_id" gorm:"size:36;not null;index"`
	User        *accountDomain.User        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TransportID *string                    `json:"transport_id" gorm:"size:36;index"`
	Transport   *transportDomain.Transport `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	StartsAt    time.Time                  `json:"starts_at"`
	EndsAt      time.Time                  `json:"ends_at" gorm:"index"`
	CreatedAt   time.Time                  `json:"created_at" gorm:"index"`
	Points      []PathPoint                `json:"points" gorm:"foreignKey:UserPathID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PathPoint is one waypoint of a UserPath. It serialises like a map point.
type PathPoint struct {
	ID         uint    `json:"-" gorm:"primaryKey"`
	UserPathID string  `json:"-" gorm:"size:36;not null;index:idx_path_point_seq,priority:1"`
	Seq        int     `json:"-" gorm:"not null;index:idx_path_point_seq,priority:2"`
	OsmID      int64   `json:"id" gorm:"not null"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// NewPathPoints numbers the waypoints in order.
func NewPathPoints(points []mapDomain.MapPoint) []PathPoint {
	out := make([]PathPoint, len(points))
	for i, p := range points {
		out[i] = PathPoint{Seq: i, OsmID: p.ID, Lat: p.Lat, Lon: p.Lon}
	}
	return out
}

// MapPoints converts the stored points back to waypoints.
func (p UserPath) MapPoints() []mapDomain.MapPoint {
	out := make([]mapDomain.MapPoint, len(p.Points))
	for i, pt := range p.Points {
		out[i] = mapDomain.MapPoint{ID: pt.OsmID, Lat: pt.Lat, Lon: pt.Lon}
	}
	return out
}

type UserPathRepository interface {
	// Create stores the path and all of its points, or nothing.
	Create(ctx context.Context, path UserPath) error
	// Recent lists the newest paths first, each with its points in order.
	Recent(ctx context.Context, limit int) ([]UserPath, error)
	// WithTransportEndingAfter lists paths linked to a transport with ends_at >= since.
	WithTransportEndingAfter(ctx context.Context, since time.Time) ([]UserPath, error)
}

// TransportFinder resolves a transport to check who owns it.
type TransportFinder interface {
	FindByID(ctx context.Context, id string) (transportDomain.Transport, error)
}
