// Command mapstats loads an OSM extract and prints the size of the road graph
// built from it.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/graph"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/osm"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	mapFile := flag.String("map", os.Getenv("MAP_FILE"), "OSM XML extract, optionally .gz")
	flag.Parse()

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Config{App: "mapstats", Level: "info"})
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	if *mapFile == "" {
		pkgApp.LogError(ctx, appLogger, "no map file given, use -map or MAP_FILE", nil, nil)
		os.Exit(2)
	}

	started := time.Now()
	extract, err := osm.Load(*mapFile)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to load map", err, map[string]interface{}{"map_file": *mapFile})
		os.Exit(1)
	}
	loaded := time.Since(started)

	rg := graph.New(extract)
	stats := rg.Stats()

	pkgApp.LogInfo(ctx, appLogger, "road graph built", map[string]interface{}{
		"map_file":         *mapFile,
		"extract_nodes":    len(extract.Nodes),
		"extract_ways":     len(extract.Ways),
		"graph_nodes":      stats.Nodes,
		"graph_ways":       stats.Ways,
		"graph_edges":      stats.Edges,
		"avg_way_node_len": stats.AvgWayNodeLen,
		"load_time":        loaded.String(),
		"build_time":       (time.Since(started) - loaded).String(),
	})
}
