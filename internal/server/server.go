// Package server wires the slices into one HTTP handler.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-pathshare/internal/account"
	accountApp "github.com/mateusmacedo/go-pathshare/internal/account/application"
	accountDomain "github.com/mateusmacedo/go-pathshare/internal/account/domain"
	accountInfra "github.com/mateusmacedo/go-pathshare/internal/account/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/config"
	"github.com/mateusmacedo/go-pathshare/internal/identity"
	"github.com/mateusmacedo/go-pathshare/internal/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice"
	mapApp "github.com/mateusmacedo/go-pathshare/internal/mapservice/application"
	mapDomain "github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	mapInfra "github.com/mateusmacedo/go-pathshare/internal/mapservice/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/messaging"
	"github.com/mateusmacedo/go-pathshare/internal/pages"
	"github.com/mateusmacedo/go-pathshare/internal/transport"
	transportApp "github.com/mateusmacedo/go-pathshare/internal/transport/application"
	transportDomain "github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	transportInfra "github.com/mateusmacedo/go-pathshare/internal/transport/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/userpath"
	userPathApp "github.com/mateusmacedo/go-pathshare/internal/userpath/application"
	userPathDomain "github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	userPathInfra "github.com/mateusmacedo/go-pathshare/internal/userpath/infrastructure"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-pathshare/pkg/infrastructure"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
	redisAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/watermill/adapter"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&accountDomain.User{},
		&transportDomain.Transport{},
		&userPathDomain.UserPath{},
		&userPathDomain.PathPoint{},
	}
}

// App is the assembled service.
type App struct {
	Router http.Handler

	db     *gorm.DB
	redis  redis.UniversalClient
	broker *messaging.Broker
	logger pkgApp.AppLogger
}

type repositories struct {
	users      accountDomain.UserRepository
	transports transportDomain.TransportRepository
	paths      userPathDomain.UserPathRepository
	// onTransportRemoved keeps in-memory paths consistent; gorm relies on the foreign key.
	onTransportRemoved func(transportID string)
}

// New builds the service from cfg. Call Close when done.
func New(ctx context.Context, cfg config.Config, logger pkgApp.AppLogger) (*App, error) {
	app := &App{logger: logger}

	if cfg.UsesRedis() {
		app.redis = redisAdapter.NewRedisClient(redisAdapter.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	broker, err := messaging.NewBroker(cfg, app.redis, watermillAdapter.NewWatermillLoggerAdapter(logger))
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.broker = broker

	repos, err := app.repositories(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	builders := mapservice.NewManager(cfg.MapFile, logger)
	builders.Warm(ctx)

	app.Router = app.router(cfg, repos, builders)
	pkgApp.LogInfo(ctx, logger, "service assembled", map[string]interface{}{
		"db_driver":       cfg.DBDriver,
		"event_transport": cfg.EventTransport,
		"route_cache":     cfg.RouteCache,
	})
	return app, nil
}

func (a *App) repositories(cfg config.Config) (repositories, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		paths := userPathInfra.NewInMemoryUserPathRepository(a.logger)
		return repositories{
			users:              accountInfra.NewInMemoryUserRepository(a.logger),
			transports:         transportInfra.NewInMemoryTransportRepository(a.logger),
			paths:              paths,
			onTransportRemoved: paths.DeleteTransport,
		}, nil
	}

	db, err := infrastructure.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL, a.logger, Models()...)
	if err != nil {
		return repositories{}, err
	}
	a.db = db
	return repositories{
		users:      accountInfra.NewGormUserRepository(db, a.logger),
		transports: transportInfra.NewGormTransportRepository(db, a.logger),
		paths:      userPathInfra.NewGormUserPathRepository(db, a.logger),
	}, nil
}

func (a *App) routeCache(cfg config.Config) mapDomain.RouteCache {
	switch cfg.RouteCache {
	case config.RouteCacheMemory:
		return mapInfra.NewInMemoryRouteCache(cfg.RouteCacheTTL)
	case config.RouteCacheRedis:
		return mapInfra.NewRedisRouteCache(a.redis, cfg.RouteCacheTTL)
	default:
		return nil
	}
}

func (a *App) router(cfg config.Config, repos repositories, builders *mapservice.Manager) http.Handler {
	logger := a.logger
	idGenerator := pkgInfra.UUIDGenerator()
	hasher := accountInfra.NewBcryptHasher()
	tokens := identity.NewTokens(identity.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL,
	})

	accountSlice := account.NewAccountSlice(
		pkgInfra.NewSimpleCommandBus[pkgDomain.Command[accountApp.RegisterUserData], accountApp.RegisterUserData](logger),
		messaging.NewEventBus[accountApp.UserRegisteredData](a.broker, logger),
		repos.users,
		hasher,
		idGenerator,
		tokens,
		cfg.RequestTimeout,
		logger,
	)

	transportEvents := messaging.NewEventBus[transportApp.TransportChangedData](a.broker, logger)
	if repos.onTransportRemoved != nil {
		transportEvents.RegisterHandler(transportApp.TransportRemovedEventName,
			pkgApp.EventHandlerFunc[pkgDomain.Event[transportApp.TransportChangedData], transportApp.TransportChangedData](
				func(_ context.Context, event pkgDomain.Event[transportApp.TransportChangedData]) error {
					repos.onTransportRemoved(event.Payload().TransportID)
					return nil
				}))
	}
	transportSlice := transport.NewTransportSlice(
		pkgInfra.NewSimpleCommandBus[pkgDomain.Command[transportApp.TransportCommandData], transportApp.TransportCommandData](logger),
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[transportApp.FindTransportsByOwnerData], transportApp.FindTransportsByOwnerData, []transportDomain.Transport](logger),
		transportEvents,
		repos.transports,
		idGenerator,
		cfg.RequestTimeout,
		logger,
	)

	userPathSlice := userpath.NewUserPathSlice(
		pkgInfra.NewSimpleCommandBus[pkgDomain.Command[userPathApp.PublishPathData], userPathApp.PublishPathData](logger),
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[userPathApp.PathQueryData], userPathApp.PathQueryData, []userPathDomain.UserPath](logger),
		messaging.NewEventBus[userPathApp.PathPublishedData](a.broker, logger),
		repos.paths,
		repos.transports,
		idGenerator,
		cfg.RecentPathsLimit,
		cfg.RequestTimeout,
		logger,
	)

	mapSlice := mapservice.NewMapServiceSlice(
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[mapApp.BuildPathData], mapApp.BuildPathData, []mapDomain.MapPoint](logger),
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[mapApp.BuildUserPathData], mapApp.BuildUserPathData, mapApp.UserRoute](logger),
		builders,
		a.routeCache(cfg),
		userPathSlice.CarPaths(),
		cfg.RequestTimeout,
		logger,
	)

	pagesHandler := pages.NewPagesHandler()
	auth := identity.NewMiddleware(tokens, accountSlice.Credentials(), logger)

	router := chi.NewRouter()
	router.Use(httpAdapter.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpAdapter.AccessLog(logger))
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.Handler())

	pagesHandler.RegisterPublicRoutes(router)
	accountSlice.RegisterRoutes(router)
	mapSlice.RegisterRoutes(router)
	userPathSlice.RegisterPublicRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Require)
		pagesHandler.RegisterPrivateRoutes(r)
		transportSlice.RegisterRoutes(r)
		userPathSlice.RegisterPrivateRoutes(r)
	})

	return router
}

// Close releases the broker, the redis client and the database, in that order.
func (a *App) Close() error {
	var errs []error
	if a.broker != nil {
		errs = append(errs, a.broker.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
