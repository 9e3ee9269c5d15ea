// Package graph builds a time-weighted road graph from an OSM extract and
// routes over it.
package graph

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/osm"
)

// RoadGraph is a directed graph keyed by OSM node id. Edge weights are travel
// times in seconds.
type RoadGraph struct {
	g     *simple.WeightedDirectedGraph
	nodes map[int64]osm.Node
	stats Stats
}

// Stats summarises a loaded graph.
type Stats struct {
	Nodes         int
	Ways          int
	Edges         int
	AvgWayNodeLen float64
}

// New builds the graph. Only nodes referenced by a highway way are kept.
func New(extract *osm.Extract) *RoadGraph {
	rg := &RoadGraph{
		g:     simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		nodes: make(map[int64]osm.Node),
	}

	totalNodes := 0
	for _, way := range extract.Ways {
		speed := speedFor(way.Highway)
		totalNodes += len(way.NodeIDs)
		for i := 1; i < len(way.NodeIDs); i++ {
			from, to := extract.Nodes[way.NodeIDs[i-1]], extract.Nodes[way.NodeIDs[i]]
			if from.ID == to.ID {
				continue
			}
			seconds := travelSeconds(haversine(from.Lat, from.Lon, to.Lat, to.Lon), speed)
			rg.connect(from, to, seconds)
			if !way.Oneway {
				rg.connect(to, from, seconds)
			}
		}
	}

	rg.stats.Nodes = len(rg.nodes)
	rg.stats.Ways = len(extract.Ways)
	if len(extract.Ways) > 0 {
		rg.stats.AvgWayNodeLen = float64(totalNodes) / float64(len(extract.Ways))
	}
	return rg
}

func (rg *RoadGraph) connect(from, to osm.Node, seconds float64) {
	rg.nodes[from.ID] = from
	rg.nodes[to.ID] = to
	if existing := rg.g.WeightedEdge(from.ID, to.ID); existing != nil {
		if existing.Weight() <= seconds {
			return
		}
	} else {
		rg.stats.Edges++
	}
	rg.g.SetWeightedEdge(rg.g.NewWeightedEdge(simple.Node(from.ID), simple.Node(to.ID), seconds))
}

// Stats returns counts collected while building.
func (rg *RoadGraph) Stats() Stats {
	return rg.stats
}

// Node looks up a routable node.
func (rg *RoadGraph) Node(id int64) (osm.Node, bool) {
	n, ok := rg.nodes[id]
	return n, ok
}

// Nearest returns the routable node closest to the coordinate.
func (rg *RoadGraph) Nearest(lat, lon float64) (osm.Node, bool) {
	best, found := osm.Node{}, false
	bestDist := math.Inf(1)
	for _, n := range rg.nodes {
		if d := haversine(lat, lon, n.Lat, n.Lon); d < bestDist || (d == bestDist && n.ID < best.ID) {
			best, bestDist, found = n, d, true
		}
	}
	return best, found
}

// ShortestPath returns the fastest node sequence from one node to another and
// its travel time in seconds.
func (rg *RoadGraph) ShortestPath(from, to int64) ([]int64, float64, error) {
	if _, ok := rg.nodes[from]; !ok {
		return nil, 0, domain.ErrNoRoute
	}
	if _, ok := rg.nodes[to]; !ok {
		return nil, 0, domain.ErrNoRoute
	}
	if from == to {
		return []int64{from}, 0, nil
	}

	shortest, _ := path.AStar(simple.Node(from), simple.Node(to), rg.g, rg.heuristic)
	nodes, seconds := shortest.To(to)
	if len(nodes) == 0 || math.IsInf(seconds, 1) {
		return nil, 0, domain.ErrNoRoute
	}

	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids, seconds, nil
}

// heuristic never overestimates: straight line at the fastest speed in the table.
func (rg *RoadGraph) heuristic(x, y graph.Node) float64 {
	a, b := rg.nodes[x.ID()], rg.nodes[y.ID()]
	return travelSeconds(haversine(a.Lat, a.Lon, b.Lat, b.Lon), maxSpeed)
}
