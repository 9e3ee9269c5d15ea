package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
	mapDomain "github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/application"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

type UserPathHTTPHandler struct {
	commandBus  pkgApp.CommandBus[pkgDomain.Command[application.PublishPathData], application.PublishPathData]
	queryBus    application.PathQueryBus
	idGenerator pkgDomain.IDGenerator[string]
	timeout     time.Duration
}

func NewUserPathHTTPHandler(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.PublishPathData], application.PublishPathData],
	queryBus application.PathQueryBus,
	idGenerator pkgDomain.IDGenerator[string],
	timeout time.Duration,
) *UserPathHTTPHandler {
	return &UserPathHTTPHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		idGenerator: idGenerator,
		timeout:     timeout,
	}
}

// PublishPathRequest is the JSON body of POST /path_publish.
type PublishPathRequest struct {
	Points      []mapDomain.MapPoint `json:"points"`
	TransportID string               `json:"transport_id"`
	StartsAt    *time.Time           `json:"starts_at"`
	EndsAt      *time.Time           `json:"ends_at"`
}

func (h *UserPathHTTPHandler) HandlePublishForm(w http.ResponseWriter, r *http.Request) {
	httpAdapter.WritePage(w, httpAdapter.Page{
		Name:   "path_publish",
		Title:  "Publish a path",
		Fields: []string{"data", "transport_id", "starts_at", "ends_at"},
	})
}

func (h *UserPathHTTPHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	req, err := decodePublish(r)
	if err != nil {
		httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	data := application.PublishPathData{
		ID:          h.idGenerator(),
		UserID:      principal.UserID,
		TransportID: req.TransportID,
		Points:      req.Points,
	}
	if req.StartsAt != nil {
		data.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		data.EndsAt = req.EndsAt.UTC()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, application.NewPublishPathCommand(data)); err != nil {
		writePathError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusCreated, map[string]interface{}{"id": data.ID, "points": len(data.Points)})
}

func (h *UserPathHTTPHandler) HandleUserPaths(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	paths, err := h.queryBus.Dispatch(ctx, application.NewRecentPathsQuery(0))
	if err != nil {
		writePathError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusOK, paths)
}

// RegisterPublicRoutes mounts the endpoints that need no login.
func (h *UserPathHTTPHandler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/path_publish", h.HandlePublishForm)
	router.Get("/user_paths", h.HandleUserPaths)
}

// RegisterPrivateRoutes mounts the endpoints that read the caller's identity.
func (h *UserPathHTTPHandler) RegisterPrivateRoutes(router chi.Router) {
	router.Post("/path_publish", h.HandlePublish)
}

// decodePublish accepts a JSON object, or a form whose "data" field holds the JSON point array.
func decodePublish(r *http.Request) (PublishPathRequest, error) {
	var req PublishPathRequest
	if httpAdapter.IsJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := httpAdapter.ParseForm(r); err != nil {
		return req, err
	}
	raw := r.PostForm.Get("data")
	if raw == "" {
		return req, errors.New("data is required")
	}
	if err := json.Unmarshal([]byte(raw), &req.Points); err != nil {
		return req, err
	}
	req.TransportID = r.PostForm.Get("transport_id")
	for field, target := range map[string]**time.Time{"starts_at": &req.StartsAt, "ends_at": &req.EndsAt} {
		if value := r.PostForm.Get(field); value != "" {
			parsed, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return req, err
			}
			*target = &parsed
		}
	}
	return req, nil
}

func writePathError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mapDomain.ErrInvalidNodeID),
		errors.Is(err, mapDomain.ErrEmptyPath),
		errors.Is(err, domain.ErrTransportNotOwned),
		errors.Is(err, domain.ErrInvalidTimes):
		httpAdapter.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httpAdapter.WriteError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		httpAdapter.WriteServerError(w, r, err)
	}
}
