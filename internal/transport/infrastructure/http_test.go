package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"mime/multipart"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
	"github.com/mateusmacedo/go-pathshare/internal/transport/application"
	"github.com/mateusmacedo/go-pathshare/internal/transport/domain"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-pathshare/pkg/infrastructure"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := userID
			if header := r.Header.Get("X-Test-User"); header != "" {
				caller = header
			}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), identity.Principal{UserID: caller})))
		})
	}
}

func newTransportRouter(t *testing.T) (*chi.Mux, *InMemoryTransportRepository) {
	logger := testLogger(t)
	repo := NewInMemoryTransportRepository(logger)
	commandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.TransportCommandData], application.TransportCommandData](logger)
	queryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTransportsByOwnerData], application.FindTransportsByOwnerData, []domain.Transport](logger)
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.TransportChangedData], application.TransportChangedData](logger)

	commandBus.RegisterHandler(application.AddTransportCommandName, application.NewAddTransportHandler(eventBus, repo, logger))
	commandBus.RegisterHandler(application.RemoveTransportCommandName, application.NewRemoveTransportHandler(eventBus, repo, logger))
	queryBus.RegisterHandler(application.FindTransportsByOwnerQueryName, application.NewFindTransportsByOwnerHandler(repo, logger))

	ids := []string{"t1", "t2", "t3"}
	next := 0
	idGenerator := func() string {
		id := ids[next]
		next++
		return id
	}

	router := chi.NewRouter()
	router.Use(asUser("u1"))
	NewTransportHTTPHandler(commandBus, queryBus, idGenerator, 5*time.Second).RegisterRoutes(router)
	return router, repo
}

func serve(router http.Handler, method, path, contentType, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

const formType = "application/x-www-form-urlencoded"

func multipartBody(t *testing.T, values url.Values) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), buf.String()
}

func TestAddTransportForm(t *testing.T) {
	router, repo := newTransportRouter(t)

	form := url.Values{
		"model":        {"Lada Granta"},
		"car_number":   {"A777AA77"},
		"place":        {"3"},
		"option":       {"smoking", "music"},
		"contact_data": {"@driver"},
		"comment":      {"no luggage"},
	}
	rr := serve(router, http.MethodPost, "/add_transport", formType, form.Encode(), "")
	require.Equal(t, http.StatusCreated, rr.Code)

	saved, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, "A777AA77", saved.PlateNumber)
	assert.Equal(t, 3, saved.Seats)
	assert.True(t, saved.Smoking)
	assert.True(t, saved.Music)
	assert.False(t, saved.Animals)
	assert.Equal(t, "@driver", saved.Contact)
}

func TestAddTransportValidation(t *testing.T) {
	router, _ := newTransportRouter(t)

	rr := serve(router, http.MethodPost, "/add_transport", formType, url.Values{"place": {"many"}}.Encode(), "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body := `{"model":"` + strings.Repeat("m", domain.MaxModelLength+1) + `"}`
	rr = serve(router, http.MethodPost, "/add_transport", "application/json", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMyTransportAndDelete(t *testing.T) {
	router, _ := newTransportRouter(t)
	require.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/add_transport", "application/json", `{"model":"Kia Rio","seats":2,"options":["dog"]}`, "").Code)
	require.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/add_transport", "application/json", `{"model":"UAZ"}`, "u2").Code)

	rr := serve(router, http.MethodGet, "/my_transport", "", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []domain.Transport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Kia Rio", mine[0].Model)
	assert.True(t, mine[0].Animals)

	rr = serve(router, http.MethodPost, "/delete_transport", formType, url.Values{"id": {"t2"}}.Encode(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, http.MethodPost, "/delete_transport", "application/json", `{"id":"t1"}`, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(router, http.MethodPost, "/delete_transport", "application/json", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(router, http.MethodGet, "/my_transport", "", "", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestAddTransportPage(t *testing.T) {
	router, _ := newTransportRouter(t)

	rr := serve(router, http.MethodGet, "/add_transport", "", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var page httpAdapter.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, "add_transport", page.Name)
	assert.Contains(t, page.Fields, "option")
}

func TestTransportMultipartForms(t *testing.T) {
	router, repo := newTransportRouter(t)

	contentType, body := multipartBody(t, url.Values{
		"model":      {"Skoda Octavia"},
		"car_number": {"B123CD"},
		"place":      {"2"},
		"option":     {"music", "dog"},
	})
	rr := serve(router, http.MethodPost, "/add_transport", contentType, body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	saved, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "B123CD", saved.PlateNumber)
	assert.Equal(t, 2, saved.Seats)
	assert.True(t, saved.Music)
	assert.True(t, saved.Animals)
	assert.False(t, saved.Smoking)

	contentType, body = multipartBody(t, url.Values{"id": {"t1"}})
	rr = serve(router, http.MethodPost, "/delete_transport", contentType, body, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err = repo.FindByID(context.Background(), "t1")
	assert.ErrorIs(t, err, domain.ErrTransportNotFound)
}
