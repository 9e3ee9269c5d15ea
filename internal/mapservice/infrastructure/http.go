package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/application"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

type MapHTTPHandler struct {
	buildPathBus     pkgApp.QueryBus[pkgDomain.Query[application.BuildPathData], application.BuildPathData, []domain.MapPoint]
	buildUserPathBus pkgApp.QueryBus[pkgDomain.Query[application.BuildUserPathData], application.BuildUserPathData, application.UserRoute]
	timeout          time.Duration
}

func NewMapHTTPHandler(
	buildPathBus pkgApp.QueryBus[pkgDomain.Query[application.BuildPathData], application.BuildPathData, []domain.MapPoint],
	buildUserPathBus pkgApp.QueryBus[pkgDomain.Query[application.BuildUserPathData], application.BuildUserPathData, application.UserRoute],
	timeout time.Duration,
) *MapHTTPHandler {
	return &MapHTTPHandler{
		buildPathBus:     buildPathBus,
		buildUserPathBus: buildUserPathBus,
		timeout:          timeout,
	}
}

// BuildUserPathRequest is the body of POST /build_user_path.
type BuildUserPathRequest struct {
	Points    []domain.MapPoint `json:"points"`
	StartTime *time.Time        `json:"start_time,omitempty"`
}

// HandleBuildPath takes a JSON array of waypoints and returns the route as a JSON array.
func (h *MapHTTPHandler) HandleBuildPath(w http.ResponseWriter, r *http.Request) {
	var points []domain.MapPoint
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	route, err := h.buildPathBus.Dispatch(ctx, application.NewBuildPathQuery(application.BuildPathData{Points: points}))
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusOK, route)
}

func (h *MapHTTPHandler) HandleBuildUserPath(w http.ResponseWriter, r *http.Request) {
	var req BuildUserPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	data := application.BuildUserPathData{Points: req.Points}
	if req.StartTime != nil {
		data.StartTime = *req.StartTime
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	route, err := h.buildUserPathBus.Dispatch(ctx, application.NewBuildUserPathQuery(data))
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusOK, route)
}

func (h *MapHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/build_path", h.HandleBuildPath)
	router.Post("/build_user_path", h.HandleBuildUserPath)
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyPath):
		httpAdapter.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoRoute):
		httpAdapter.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httpAdapter.WriteError(w, http.StatusGatewayTimeout, "route building timed out")
	default:
		httpAdapter.WriteServerError(w, r, err)
	}
}
