package application

import (
	"context"
	"errors"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/observability"
	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type TransportEventBus = pkgApp.EventBus[pkgDomain.Event[TransportChangedData], TransportChangedData]

type addTransportHandler struct {
	eventBus   TransportEventBus
	repository domain.TransportRepository
	logger     pkgApp.AppLogger
	now        func() time.Time
}

func NewAddTransportHandler(eventBus TransportEventBus, repo domain.TransportRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[TransportCommandData], TransportCommandData] {
	return &addTransportHandler{
		eventBus:   eventBus,
		repository: repo,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *addTransportHandler) Handle(ctx context.Context, command pkgDomain.Command[TransportCommandData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	transport := domain.Transport{
		ID:          data.ID,
		UserID:      data.UserID,
		Model:       data.Model,
		PlateNumber: data.PlateNumber,
		Seats:       data.Seats,
		Contact:     data.Contact,
		Comment:     data.Comment,
		CreatedAt:   h.now().UTC(),
	}
	if transport.Seats == 0 {
		transport.Seats = domain.DefaultSeats
	}
	transport.ApplyOptions(data.Options)

	if err := transport.Validate(); err != nil {
		pkgApp.LogInfo(ctx, h.logger, "transport rejected", map[string]interface{}{
			"user_id": data.UserID,
			"reason":  err.Error(),
		})
		return err
	}

	if err := h.repository.Save(ctx, transport); err != nil {
		pkgApp.LogError(ctx, h.logger, "error saving transport", err, map[string]interface{}{"transport_id": transport.ID})
		return err
	}

	publish(ctx, h.eventBus, h.logger, NewTransportAddedEvent(TransportChangedData{
		TransportID: transport.ID,
		UserID:      transport.UserID,
		At:          transport.CreatedAt,
	}))

	pkgApp.LogInfo(ctx, h.logger, "transport added", map[string]interface{}{
		"transport_id": transport.ID,
		"user_id":      transport.UserID,
	})
	return nil
}

type removeTransportHandler struct {
	eventBus   TransportEventBus
	repository domain.TransportRepository
	logger     pkgApp.AppLogger
	now        func() time.Time
}

func NewRemoveTransportHandler(eventBus TransportEventBus, repo domain.TransportRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[TransportCommandData], TransportCommandData] {
	return &removeTransportHandler{
		eventBus:   eventBus,
		repository: repo,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *removeTransportHandler) Handle(ctx context.Context, command pkgDomain.Command[TransportCommandData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.repository.Delete(ctx, data.ID, data.UserID); err != nil {
		if !errors.Is(err, domain.ErrTransportNotFound) {
			pkgApp.LogError(ctx, h.logger, "error removing transport", err, map[string]interface{}{"transport_id": data.ID})
		}
		return err
	}

	publish(ctx, h.eventBus, h.logger, NewTransportRemovedEvent(TransportChangedData{
		TransportID: data.ID,
		UserID:      data.UserID,
		At:          h.now().UTC(),
	}))

	pkgApp.LogInfo(ctx, h.logger, "transport removed", map[string]interface{}{
		"transport_id": data.ID,
		"user_id":      data.UserID,
	})
	return nil
}

// publish logs and swallows bus errors; the change is already committed.
func publish(ctx context.Context, bus TransportEventBus, logger pkgApp.AppLogger, event pkgDomain.Event[TransportChangedData]) {
	if err := bus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, logger, "error publishing event", err, map[string]interface{}{"event_name": event.EventName()})
	}
}

type findTransportsByOwnerHandler struct {
	repository domain.TransportRepository
	logger     pkgApp.AppLogger
}

func NewFindTransportsByOwnerHandler(repo domain.TransportRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindTransportsByOwnerData], FindTransportsByOwnerData, []domain.Transport] {
	return &findTransportsByOwnerHandler{
		repository: repo,
		logger:     logger,
	}
}

func (h *findTransportsByOwnerHandler) Handle(ctx context.Context, query pkgDomain.Query[FindTransportsByOwnerData]) ([]domain.Transport, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	userID := query.Payload().UserID
	transports, err := h.repository.FindByOwner(ctx, userID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error listing transports", err, map[string]interface{}{"user_id": userID})
		return nil, err
	}
	if transports == nil {
		transports = []domain.Transport{}
	}
	return transports, nil
}

type transportChangedEventHandler struct {
	logger pkgApp.AppLogger
}

// NewTransportChangedEventHandler counts added and removed transports.
func NewTransportChangedEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[TransportChangedData], TransportChangedData] {
	return &transportChangedEventHandler{logger: logger}
}

func (h *transportChangedEventHandler) Handle(ctx context.Context, event pkgDomain.Event[TransportChangedData]) error {
	action := "added"
	if event.EventName() == TransportRemovedEventName {
		action = "removed"
	}
	observability.RecordTransportChange(action)
	pkgApp.LogDebug(ctx, h.logger, "event received", map[string]interface{}{
		"event_name":   event.EventName(),
		"transport_id": event.Payload().TransportID,
	})
	return nil
}
