package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/account/application"
	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/identity"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

type AccountHTTPHandler struct {
	commandBus  pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData]
	idGenerator pkgDomain.IDGenerator[string]
	tokens      *identity.Tokens
	timeout     time.Duration
}

func NewAccountHTTPHandler(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData],
	idGenerator pkgDomain.IDGenerator[string],
	tokens *identity.Tokens,
	timeout time.Duration,
) *AccountHTTPHandler {
	return &AccountHTTPHandler{
		commandBus:  commandBus,
		idGenerator: idGenerator,
		tokens:      tokens,
		timeout:     timeout,
	}
}

// RegistrationRequest mirrors the registration form fields.
type RegistrationRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type RegistrationResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (h *AccountHTTPHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRegistration(r)
	if err != nil {
		httpAdapter.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	data := application.RegisterUserData{
		ID:        h.idGenerator(),
		Username:  req.Name,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, application.NewRegisterUserCommand(data)); err != nil {
		writeAccountError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(identity.Principal{UserID: data.ID, Username: data.Username})
	if err != nil {
		httpAdapter.WriteServerError(w, r, err)
		return
	}

	httpAdapter.WriteJSON(w, http.StatusCreated, RegistrationResponse{
		ID:       data.ID,
		Username: data.Username,
		Token:    token,
	})
}

func (h *AccountHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/registration", h.HandleRegistration)
}

func decodeRegistration(r *http.Request) (RegistrationRequest, error) {
	var req RegistrationRequest
	if httpAdapter.IsJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := httpAdapter.ParseForm(r); err != nil {
		return req, err
	}
	req.Name = r.PostForm.Get("name")
	req.Email = r.PostForm.Get("email")
	req.Password1 = r.PostForm.Get("password1")
	req.Password2 = r.PostForm.Get("password2")
	return req, nil
}

func writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrNameTooShort),
		errors.Is(err, domain.ErrPasswordTooShort):
		httpAdapter.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserExists):
		httpAdapter.WriteError(w, http.StatusConflict, err.Error())
	default:
		httpAdapter.WriteServerError(w, r, err)
	}
}
