package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/observability"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

// BuilderSource hands out the active path builder.
type BuilderSource interface {
	Service(ctx context.Context) domain.PathBuilder
}

type buildPathHandler struct {
	builders BuilderSource
	cache    domain.RouteCache
	logger   pkgApp.AppLogger
}

// NewBuildPathHandler builds routes, consulting cache first when it is not nil.
func NewBuildPathHandler(builders BuilderSource, cache domain.RouteCache, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[BuildPathData], BuildPathData, []domain.MapPoint] {
	return &buildPathHandler{
		builders: builders,
		cache:    cache,
		logger:   logger,
	}
}

func (h *buildPathHandler) Handle(ctx context.Context, query pkgDomain.Query[BuildPathData]) ([]domain.MapPoint, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	points := query.Payload().Points
	if len(points) == 0 {
		return nil, domain.ErrEmptyPath
	}

	builder := h.builders.Service(ctx)
	if h.cache == nil {
		observability.RecordRoute(builder.Name(), "off")
		return h.build(ctx, builder, points)
	}

	key, err := cacheKey(builder.Name(), points)
	if err != nil {
		return nil, err
	}

	route, found, err := h.cache.Get(ctx, key)
	if err != nil {
		// Cache errors never fail the request.
		pkgApp.LogError(ctx, h.logger, "route cache read failed", err, map[string]interface{}{"key": key})
	} else if found {
		observability.RecordRoute(builder.Name(), "hit")
		return route, nil
	}

	route, err = h.build(ctx, builder, points)
	if err != nil {
		return nil, err
	}
	observability.RecordRoute(builder.Name(), "miss")

	if err := h.cache.Set(ctx, key, route); err != nil {
		pkgApp.LogError(ctx, h.logger, "route cache write failed", err, map[string]interface{}{"key": key})
	}
	return route, nil
}

func (h *buildPathHandler) build(ctx context.Context, builder domain.PathBuilder, points []domain.MapPoint) ([]domain.MapPoint, error) {
	start := time.Now()
	route, err := builder.BuildPath(ctx, points)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "build path failed", err, map[string]interface{}{
			"builder": builder.Name(),
			"points":  len(points),
		})
		return nil, err
	}
	observability.ObserveRouteBuild(builder.Name(), time.Since(start))
	pkgApp.LogDebug(ctx, h.logger, "path built", map[string]interface{}{
		"builder":      builder.Name(),
		"points":       len(points),
		"route_points": len(route),
	})
	return route, nil
}

func cacheKey(builderName string, points []domain.MapPoint) (string, error) {
	raw, err := json.Marshal(points)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "route:" + builderName + ":" + hex.EncodeToString(sum[:]), nil
}

type buildUserPathHandler struct {
	builders BuilderSource
	cars     domain.CarPathSource
	logger   pkgApp.AppLogger
	now      func() time.Time
}

func NewBuildUserPathHandler(builders BuilderSource, cars domain.CarPathSource, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[BuildUserPathData], BuildUserPathData, UserRoute] {
	return &buildUserPathHandler{
		builders: builders,
		cars:     cars,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *buildUserPathHandler) Handle(ctx context.Context, query pkgDomain.Query[BuildUserPathData]) (UserRoute, error) {
	if ctx.Err() != nil {
		return UserRoute{}, ctx.Err()
	}

	data := query.Payload()
	if len(data.Points) == 0 {
		return UserRoute{}, domain.ErrEmptyPath
	}
	start := data.StartTime
	if start.IsZero() {
		start = h.now()
	}

	cars, err := h.cars.CarPaths(ctx, start)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "listing car paths failed", err, map[string]interface{}{"since": start})
		return UserRoute{}, err
	}

	builder := h.builders.Service(ctx)
	path, err := builder.BuildPathUsingCars(ctx, data.Points, cars)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "build user path failed", err, map[string]interface{}{
			"builder": builder.Name(),
			"points":  len(data.Points),
		})
		return UserRoute{}, err
	}
	observability.RecordRoute(builder.Name(), "off")

	if cars == nil {
		cars = []domain.MapCarPath{}
	}
	return UserRoute{Path: path, CarPaths: cars}, nil
}
