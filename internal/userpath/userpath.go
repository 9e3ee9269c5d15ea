package userpath

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/userpath/application"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/infrastructure"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type UserPathSlice struct {
	httpHandler *infrastructure.UserPathHTTPHandler
	carPaths    *application.CarPathSource
}

func NewUserPathSlice(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.PublishPathData], application.PublishPathData],
	queryBus application.PathQueryBus,
	eventBus application.PathEventBus,
	repository domain.UserPathRepository,
	transports domain.TransportFinder,
	idGenerator pkgDomain.IDGenerator[string],
	recentLimit int,
	requestTimeout time.Duration,
	logger pkgApp.AppLogger,
) *UserPathSlice {
	commandBus.RegisterHandler(application.PublishPathCommandName, application.NewPublishPathHandler(eventBus, repository, transports, logger))
	queryBus.RegisterHandler(application.RecentPathsQueryName, application.NewRecentPathsHandler(repository, recentLimit, logger))
	queryBus.RegisterHandler(application.CarPathsQueryName, application.NewCarPathsHandler(repository, logger))
	eventBus.RegisterHandler(application.PathPublishedEventName, application.NewPathPublishedEventHandler(logger))

	return &UserPathSlice{
		httpHandler: infrastructure.NewUserPathHTTPHandler(commandBus, queryBus, idGenerator, requestTimeout),
		carPaths:    application.NewCarPathSource(queryBus),
	}
}

// CarPaths exposes recorded car journeys to the map service.
func (s *UserPathSlice) CarPaths() *application.CarPathSource {
	return s.carPaths
}

func (s *UserPathSlice) RegisterPublicRoutes(router chi.Router) {
	s.httpHandler.RegisterPublicRoutes(router)
}

func (s *UserPathSlice) RegisterPrivateRoutes(router chi.Router) {
	s.httpHandler.RegisterPrivateRoutes(router)
}
