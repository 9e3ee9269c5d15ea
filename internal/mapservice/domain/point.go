// Package domain holds the transient map types exchanged with the path builder.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidNodeID is returned when a waypoint carries the reserved node id 0.
	ErrInvalidNodeID = errors.New("osm node id 0 is forbidden")
	// ErrEmptyPath is returned when a route is requested for no waypoints.
	ErrEmptyPath = errors.New("at least one point is required")
	// ErrNoRoute is returned when two consecutive waypoints are not connected.
	ErrNoRoute = errors.New("no route between points")
)

// MapPoint is a waypoint: an OSM node id and its coordinates. A missing id decodes to 0.
type MapPoint struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapCarPath is a recorded car journey offered to the matcher.
type MapCarPath struct {
	StartTime time.Time  `json:"start_time"`
	Points    []MapPoint `json:"points"`
}

// ValidateNodeIDs rejects any waypoint without a real node id.
func ValidateNodeIDs(points []MapPoint) error {
	for _, p := range points {
		if p.ID == 0 {
			return ErrInvalidNodeID
		}
	}
	return nil
}

// PathBuilder turns sparse waypoints into a route.
type PathBuilder interface {
	// Name identifies the builder in cache keys and metrics.
	Name() string
	BuildPath(ctx context.Context, points []MapPoint) ([]MapPoint, error)
	BuildPathUsingCars(ctx context.Context, points []MapPoint, cars []MapCarPath) ([]MapPoint, error)
}

// CarPathSource lists recorded car journeys still running at or after since.
type CarPathSource interface {
	CarPaths(ctx context.Context, since time.Time) ([]MapCarPath, error)
}

// RouteCache stores built routes by key.
type RouteCache interface {
	Get(ctx context.Context, key string) ([]MapPoint, bool, error)
	Set(ctx context.Context, key string, route []MapPoint) error
}
