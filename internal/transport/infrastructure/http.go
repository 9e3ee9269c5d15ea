package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
	"github.com/mateusmacedo/go-pathshare/internal/transport/application"
	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

var errInvalidSeats = errors.New("seats must be a number")

type TransportHTTPHandler struct {
	commandBus  pkgApp.CommandBus[pkgDomain.Command[application.TransportCommandData], application.TransportCommandData]
	queryBus    pkgApp.QueryBus[pkgDomain.Query[application.FindTransportsByOwnerData], application.FindTransportsByOwnerData, []domain.Transport]
	idGenerator pkgDomain.IDGenerator[string]
	timeout     time.Duration
}

func NewTransportHTTPHandler(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.TransportCommandData], application.TransportCommandData],
	queryBus pkgApp.QueryBus[pkgDomain.Query[application.FindTransportsByOwnerData], application.FindTransportsByOwnerData, []domain.Transport],
	idGenerator pkgDomain.IDGenerator[string],
	timeout time.Duration,
) *TransportHTTPHandler {
	return &TransportHTTPHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		idGenerator: idGenerator,
		timeout:     timeout,
	}
}

// AddTransportRequest is the JSON body of POST /add_transport.
type AddTransportRequest struct {
	Model       string   `json:"model"`
	PlateNumber string   `json:"plate_number"`
	Seats       int      `json:"seats"`
	Options     []string `json:"options"`
	Contact     string   `json:"contact"`
	Comment     string   `json:"comment"`
}

type RemoveTransportRequest struct {
	ID string `json:"id"`
}

func (h *TransportHTTPHandler) HandleAddTransportForm(w http.ResponseWriter, r *http.Request) {
	httpAdapter.WritePage(w, httpAdapter.Page{
		Name:   "add_transport",
		Title:  "Add transport",
		Fields: []string{"model", "car_number", "place", "option", "contact_data", "comment"},
	})
}

func (h *TransportHTTPHandler) HandleAddTransport(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	req, err := decodeAddTransport(r)
	if err != nil {
		message := "invalid request"
		if errors.Is(err, errInvalidSeats) {
			message = err.Error()
		}
		httpAdapter.WriteError(w, http.StatusBadRequest, message)
		return
	}

	data := application.TransportCommandData{
		ID:          h.idGenerator(),
		UserID:      principal.UserID,
		Model:       strings.TrimSpace(req.Model),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		Seats:       req.Seats,
		Options:     req.Options,
		Contact:     strings.TrimSpace(req.Contact),
		Comment:     req.Comment,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, application.NewAddTransportCommand(data)); err != nil {
		writeTransportError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "transport added", "id": data.ID})
}

func (h *TransportHTTPHandler) HandleMyTransport(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	transports, err := h.queryBus.Dispatch(ctx, application.NewFindTransportsByOwnerQuery(application.FindTransportsByOwnerData{
		UserID: principal.UserID,
	}))
	if err != nil {
		writeTransportError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusOK, transports)
}

func (h *TransportHTTPHandler) HandleDeleteTransport(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	var req RemoveTransportRequest
	if httpAdapter.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
	} else {
		if err := httpAdapter.ParseForm(r); err != nil {
			httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.ID = r.PostForm.Get("id")
	}
	if req.ID == "" {
		httpAdapter.WriteError(w, http.StatusBadRequest, "id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, application.NewRemoveTransportCommand(req.ID, principal.UserID)); err != nil {
		writeTransportError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes mounts the transport endpoints. router is expected to require authentication.
func (h *TransportHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/add_transport", h.HandleAddTransportForm)
	router.Post("/add_transport", h.HandleAddTransport)
	router.Get("/my_transport", h.HandleMyTransport)
	router.Post("/delete_transport", h.HandleDeleteTransport)
}

// decodeAddTransport reads either JSON or the form field names of the add-transport page.
func decodeAddTransport(r *http.Request) (AddTransportRequest, error) {
	var req AddTransportRequest
	if httpAdapter.IsJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := httpAdapter.ParseForm(r); err != nil {
		return req, err
	}
	form := r.PostForm
	req.Model = form.Get("model")
	req.PlateNumber = firstOf(form.Get("plate_number"), form.Get("car_number"))
	req.Options = form["option"]
	req.Contact = firstOf(form.Get("contact"), form.Get("contact_data"))
	req.Comment = form.Get("comment")

	if seats := strings.TrimSpace(firstOf(form.Get("seats"), form.Get("place"))); seats != "" {
		n, err := strconv.Atoi(seats)
		if err != nil {
			return req, errInvalidSeats
		}
		req.Seats = n
	}
	return req, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeTransportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransport):
		httpAdapter.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTransportNotFound):
		httpAdapter.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httpAdapter.WriteError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		httpAdapter.WriteServerError(w, r, err)
	}
}
