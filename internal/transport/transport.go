package transport

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/transport/application"
	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	"github.com/mateusmacedo/go-pathshare/internal/transport/infrastructure"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type TransportSlice struct {
	httpHandler *infrastructure.TransportHTTPHandler
}

func NewTransportSlice(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.TransportCommandData], application.TransportCommandData],
	queryBus pkgApp.QueryBus[pkgDomain.Query[application.FindTransportsByOwnerData], application.FindTransportsByOwnerData, []domain.Transport],
	eventBus application.TransportEventBus,
	repository domain.TransportRepository,
	idGenerator pkgDomain.IDGenerator[string],
	requestTimeout time.Duration,
	logger pkgApp.AppLogger,
) *TransportSlice {
	commandBus.RegisterHandler(application.AddTransportCommandName, application.NewAddTransportHandler(eventBus, repository, logger))
	commandBus.RegisterHandler(application.RemoveTransportCommandName, application.NewRemoveTransportHandler(eventBus, repository, logger))
	queryBus.RegisterHandler(application.FindTransportsByOwnerQueryName, application.NewFindTransportsByOwnerHandler(repository, logger))

	changed := application.NewTransportChangedEventHandler(logger)
	eventBus.RegisterHandler(application.TransportAddedEventName, changed)
	eventBus.RegisterHandler(application.TransportRemovedEventName, changed)

	return &TransportSlice{
		httpHandler: infrastructure.NewTransportHTTPHandler(commandBus, queryBus, idGenerator, requestTimeout),
	}
}

// RegisterRoutes mounts every transport endpoint; all of them need an authenticated router.
func (s *TransportSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
