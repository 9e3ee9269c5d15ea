package application

import (
	"context"
	"errors"
	"time"

	mapDomain "github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/observability"
	transportDomain "github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type PathEventBus = pkgApp.EventBus[pkgDomain.Event[PathPublishedData], PathPublishedData]

type PathQueryBus = pkgApp.QueryBus[pkgDomain.Query[PathQueryData], PathQueryData, []domain.UserPath]

type publishPathHandler struct {
	eventBus   PathEventBus
	repository domain.UserPathRepository
	transports domain.TransportFinder
	logger     pkgApp.AppLogger
	now        func() time.Time
}

func NewPublishPathHandler(eventBus PathEventBus, repo domain.UserPathRepository, transports domain.TransportFinder, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[PublishPathData], PublishPathData] {
	return &publishPathHandler{
		eventBus:   eventBus,
		repository: repo,
		transports: transports,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *publishPathHandler) Handle(ctx context.Context, command pkgDomain.Command[PublishPathData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	if len(data.Points) == 0 {
		return mapDomain.ErrEmptyPath
	}
	if err := mapDomain.ValidateNodeIDs(data.Points); err != nil {
		pkgApp.LogInfo(ctx, h.logger, "path rejected", map[string]interface{}{
			"user_id": data.UserID,
			"reason":  err.Error(),
		})
		return err
	}

	path := domain.UserPath{
		ID:        data.ID,
		UserID:    data.UserID,
		StartsAt:  data.StartsAt,
		EndsAt:    data.EndsAt,
		CreatedAt: h.now().UTC(),
		Points:    domain.NewPathPoints(data.Points),
	}
	if path.StartsAt.IsZero() {
		path.StartsAt = path.CreatedAt
	}
	if path.EndsAt.IsZero() {
		path.EndsAt = path.CreatedAt
	}
	if path.EndsAt.Before(path.StartsAt) {
		return domain.ErrInvalidTimes
	}

	if data.TransportID != "" {
		if err := h.checkTransport(ctx, data.TransportID, data.UserID); err != nil {
			return err
		}
		transportID := data.TransportID
		path.TransportID = &transportID
	}

	if err := h.repository.Create(ctx, path); err != nil {
		pkgApp.LogError(ctx, h.logger, "error saving path", err, map[string]interface{}{
			"path_id": path.ID,
			"points":  len(path.Points),
		})
		return err
	}

	event := NewPathPublishedEvent(PathPublishedData{
		PathID:      path.ID,
		UserID:      path.UserID,
		TransportID: data.TransportID,
		Points:      len(path.Points),
		PublishedAt: path.CreatedAt,
	})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, map[string]interface{}{"event_name": event.EventName()})
	}

	pkgApp.LogInfo(ctx, h.logger, "path published", map[string]interface{}{
		"path_id": path.ID,
		"user_id": path.UserID,
		"points":  len(path.Points),
	})
	return nil
}

func (h *publishPathHandler) checkTransport(ctx context.Context, transportID, userID string) error {
	transport, err := h.transports.FindByID(ctx, transportID)
	if errors.Is(err, transportDomain.ErrTransportNotFound) {
		return domain.ErrTransportNotOwned
	}
	if err != nil {
		return err
	}
	if transport.UserID != userID {
		return domain.ErrTransportNotOwned
	}
	return nil
}

type recentPathsHandler struct {
	repository   domain.UserPathRepository
	defaultLimit int
	logger       pkgApp.AppLogger
}

func NewRecentPathsHandler(repo domain.UserPathRepository, defaultLimit int, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[PathQueryData], PathQueryData, []domain.UserPath] {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultRecentPaths
	}
	return &recentPathsHandler{
		repository:   repo,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func (h *recentPathsHandler) Handle(ctx context.Context, query pkgDomain.Query[PathQueryData]) ([]domain.UserPath, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	limit := query.Payload().Limit
	if limit <= 0 {
		limit = h.defaultLimit
	}
	paths, err := h.repository.Recent(ctx, limit)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error listing recent paths", err, map[string]interface{}{"limit": limit})
		return nil, err
	}
	if paths == nil {
		paths = []domain.UserPath{}
	}
	return paths, nil
}

type carPathsHandler struct {
	repository domain.UserPathRepository
	logger     pkgApp.AppLogger
}

func NewCarPathsHandler(repo domain.UserPathRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[PathQueryData], PathQueryData, []domain.UserPath] {
	return &carPathsHandler{repository: repo, logger: logger}
}

func (h *carPathsHandler) Handle(ctx context.Context, query pkgDomain.Query[PathQueryData]) ([]domain.UserPath, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	since := query.Payload().Since
	paths, err := h.repository.WithTransportEndingAfter(ctx, since)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error listing car paths", err, map[string]interface{}{"since": since})
		return nil, err
	}
	return paths, nil
}

// CarPathSource feeds recorded car journeys to the route builder through the query bus.
type CarPathSource struct {
	queryBus PathQueryBus
}

func NewCarPathSource(queryBus PathQueryBus) *CarPathSource {
	return &CarPathSource{queryBus: queryBus}
}

func (s *CarPathSource) CarPaths(ctx context.Context, since time.Time) ([]mapDomain.MapCarPath, error) {
	paths, err := s.queryBus.Dispatch(ctx, NewCarPathsQuery(since))
	if err != nil {
		return nil, err
	}
	cars := make([]mapDomain.MapCarPath, 0, len(paths))
	for _, p := range paths {
		cars = append(cars, mapDomain.MapCarPath{StartTime: p.StartsAt, Points: p.MapPoints()})
	}
	return cars, nil
}

type pathPublishedEventHandler struct {
	logger pkgApp.AppLogger
}

func NewPathPublishedEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[PathPublishedData], PathPublishedData] {
	return &pathPublishedEventHandler{logger: logger}
}

func (h *pathPublishedEventHandler) Handle(ctx context.Context, event pkgDomain.Event[PathPublishedData]) error {
	data := event.Payload()
	observability.RecordPathPublished(data.Points, data.PublishedAt)
	pkgApp.LogDebug(ctx, h.logger, "event received", map[string]interface{}{
		"event_name": event.EventName(),
		"path_id":    data.PathID,
	})
	return nil
}
