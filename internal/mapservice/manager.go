package mapservice

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/graph"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/osm"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
)

// Manager owns the process-wide path builder. The builder is created on first
// use and shared afterwards.
type Manager struct {
	mapFile string
	logger  pkgApp.AppLogger
	load    func(path string) (*osm.Extract, error)

	once    sync.Once
	builder domain.PathBuilder
}

func NewManager(mapFile string, logger pkgApp.AppLogger) *Manager {
	return &Manager{
		mapFile: mapFile,
		logger:  logger,
		load:    osm.Load,
	}
}

// Service returns the shared builder: the road graph builder when the map file
// loads, the endpoint builder otherwise.
func (m *Manager) Service(ctx context.Context) domain.PathBuilder {
	m.once.Do(func() {
		m.builder = m.create(context.WithoutCancel(ctx))
	})
	return m.builder
}

// Warm builds the shared builder ahead of the first request. A large map file
// otherwise delays that request past its timeout.
func (m *Manager) Warm(ctx context.Context) {
	started := time.Now()
	builder := m.Service(ctx)
	pkgApp.LogInfo(ctx, m.logger, "path builder ready", map[string]interface{}{
		"builder":     builder.Name(),
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

func (m *Manager) create(ctx context.Context) domain.PathBuilder {
	if m.mapFile == "" {
		pkgApp.LogInfo(ctx, m.logger, "no map file configured, using endpoint builder", nil)
		return domain.EndpointBuilder{}
	}

	extract, err := m.load(m.mapFile)
	if err != nil {
		pkgApp.LogError(ctx, m.logger, "map file could not be loaded, using endpoint builder", err, map[string]interface{}{
			"map_file": m.mapFile,
		})
		return domain.EndpointBuilder{}
	}

	g := graph.New(extract)
	stats := g.Stats()
	if stats.Edges == 0 {
		pkgApp.LogInfo(ctx, m.logger, "map file has no roads, using endpoint builder", map[string]interface{}{
			"map_file": m.mapFile,
		})
		return domain.EndpointBuilder{}
	}

	pkgApp.LogInfo(ctx, m.logger, "road graph loaded", map[string]interface{}{
		"map_file": m.mapFile,
		"nodes":    stats.Nodes,
		"ways":     stats.Ways,
		"edges":    stats.Edges,
	})
	return graph.NewBuilder(g)
}
