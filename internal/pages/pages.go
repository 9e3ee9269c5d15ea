// Package pages serves the screens the web client renders itself.
package pages

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// HandleIndex is the liveness placeholder.
func (h *PagesHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pathshare"))
}

func (h *PagesHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	httpAdapter.WritePage(w, httpAdapter.Page{Name: "map", Title: "Map"})
}

func (h *PagesHandler) HandleUserMap(w http.ResponseWriter, r *http.Request) {
	httpAdapter.WritePage(w, httpAdapter.Page{Name: "user_map_view", Title: "Plan a trip"})
}

func (h *PagesHandler) HandleMain(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())
	httpAdapter.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"page":     "main",
		"title":    "Main",
		"username": principal.Username,
		"links":    []string{"/map", "/user_map_view", "/add_transport", "/my_transport", "/path_publish"},
	})
}

func (h *PagesHandler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/", h.HandleIndex)
}

func (h *PagesHandler) RegisterPrivateRoutes(router chi.Router) {
	router.Get("/map", h.HandleMap)
	router.Get("/user_map_view", h.HandleUserMap)
	router.Get("/main", h.HandleMain)
}
