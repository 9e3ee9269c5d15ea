package graph

import (
	"context"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/osm"
)

// Builder routes every consecutive pair of waypoints over a RoadGraph.
type Builder struct {
	graph *RoadGraph
}

func NewBuilder(g *RoadGraph) *Builder {
	return &Builder{graph: g}
}

func (b *Builder) Name() string {
	return "roadgraph"
}

// BuildPath snaps each waypoint to the graph (by node id, else nearest node)
// and concatenates the legs.
func (b *Builder) BuildPath(ctx context.Context, points []domain.MapPoint) ([]domain.MapPoint, error) {
	if len(points) == 0 {
		return nil, domain.ErrEmptyPath
	}

	stops := make([]int64, 0, len(points))
	for _, p := range points {
		n, ok := b.resolve(p)
		if !ok {
			return nil, domain.ErrNoRoute
		}
		stops = append(stops, n.ID)
	}

	if len(stops) == 1 {
		p := b.toPoint(stops[0])
		return []domain.MapPoint{p, p}, nil
	}

	route := []domain.MapPoint{b.toPoint(stops[0])}
	for i := 1; i < len(stops); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		leg, _, err := b.graph.ShortestPath(stops[i-1], stops[i])
		if err != nil {
			return nil, err
		}
		for _, id := range leg[1:] {
			route = append(route, b.toPoint(id))
		}
	}
	if len(route) == 1 {
		route = append(route, route[0])
	}
	return route, nil
}

// BuildPathUsingCars routes on foot for now; cars are accepted but not matched.
func (b *Builder) BuildPathUsingCars(ctx context.Context, points []domain.MapPoint, _ []domain.MapCarPath) ([]domain.MapPoint, error) {
	return b.BuildPath(ctx, points)
}

func (b *Builder) resolve(p domain.MapPoint) (osm.Node, bool) {
	if n, ok := b.graph.Node(p.ID); ok {
		return n, true
	}
	return b.graph.Nearest(p.Lat, p.Lon)
}

func (b *Builder) toPoint(id int64) domain.MapPoint {
	n, _ := b.graph.Node(id)
	return domain.MapPoint{ID: n.ID, Lat: n.Lat, Lon: n.Lon}
}
