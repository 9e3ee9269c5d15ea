package pages

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
)

func router() *chi.Mux {
	h := NewPagesHandler()
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := identity.WithPrincipal(req.Context(), identity.Principal{UserID: "u1", Username: "alice"})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		h.RegisterPrivateRoutes(r)
	})
	return r
}

func get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestIndex(t *testing.T) {
	rr := get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pathshare", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestPageDescriptors(t *testing.T) {
	assert.JSONEq(t, `{"page":"map","title":"Map"}`, get("/map").Body.String())
	assert.JSONEq(t, `{"page":"user_map_view","title":"Plan a trip"}`, get("/user_map_view").Body.String())

	rr := get("/main")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice"`)
}
