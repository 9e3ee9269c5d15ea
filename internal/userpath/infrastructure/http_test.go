package infrastructure

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-pathshare/internal/identity"
	transportInfra "github.com/mateusmacedo/go-pathshare/internal/transport/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/application"
	"github.com/mateusmacedo/go-pathshare/internal/userpath/domain"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-pathshare/pkg/infrastructure"
)

func newPathRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	logger := testLogger(t)
	db := openDB(t)
	repo := NewGormUserPathRepository(db, logger)
	transports := transportInfra.NewGormTransportRepository(db, logger)

	commandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.PublishPathData], application.PublishPathData](logger)
	queryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.PathQueryData], application.PathQueryData, []domain.UserPath](logger)
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.PathPublishedData], application.PathPublishedData](logger)
	commandBus.RegisterHandler(application.PublishPathCommandName, application.NewPublishPathHandler(eventBus, repo, transports, logger))
	queryBus.RegisterHandler(application.RecentPathsQueryName, application.NewRecentPathsHandler(repo, domain.DefaultRecentPaths, logger))

	handler := NewUserPathHTTPHandler(commandBus, queryBus, pkgInfra.UUIDGenerator(), 5*time.Second)

	router := chi.NewRouter()
	handler.RegisterPublicRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := identity.WithPrincipal(req.Context(), identity.Principal{UserID: "u1", Username: "driver"})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		handler.RegisterPrivateRoutes(r)
	})
	return router, db
}

func do(router http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func countRows(t *testing.T, db *gorm.DB) (int64, int64) {
	var paths, points int64
	require.NoError(t, db.Model(&domain.UserPath{}).Count(&paths).Error)
	require.NoError(t, db.Model(&domain.PathPoint{}).Count(&points).Error)
	return paths, points
}

// multipartForm encodes values the way a browser FormData submission does.
func multipartForm(t *testing.T, values url.Values) (string, string) {
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

func urlencodedForm(_ *testing.T, values url.Values) (string, string) {
	return "application/x-www-form-urlencoded", values.Encode()
}

var formEncodings = []struct {
	name   string
	encode func(*testing.T, url.Values) (string, string)
}{
	{"urlencoded", urlencodedForm},
	{"multipart", multipartForm},
}

func TestPublishFormWithZeroIDWritesNothing(t *testing.T) {
	for _, enc := range formEncodings {
		t.Run(enc.name, func(t *testing.T) {
			router, db := newPathRouter(t)

			contentType, body := enc.encode(t, url.Values{"data": {`[{"id":11,"lat":55.1,"lon":37.1},{"lat":55.2,"lon":37.2}]`}})
			rr := do(router, http.MethodPost, "/path_publish", contentType, body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "osm node id 0 is forbidden")
			paths, points := countRows(t, db)
			assert.Zero(t, paths)
			assert.Zero(t, points)
		})
	}
}

func TestPublishFormEncodings(t *testing.T) {
	for _, enc := range formEncodings {
		t.Run(enc.name, func(t *testing.T) {
			router, db := newPathRouter(t)

			contentType, body := enc.encode(t, url.Values{
				"data":    {`[{"id":1,"lat":55.1,"lon":37.1},{"id":2,"lat":55.2,"lon":37.2}]`},
				"ends_at": {"2030-01-01T10:00:00Z"},
			})
			rr := do(router, http.MethodPost, "/path_publish", contentType, body)

			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			paths, points := countRows(t, db)
			assert.EqualValues(t, 1, paths)
			assert.EqualValues(t, 2, points)
		})
	}
}

func TestPublishAndListPaths(t *testing.T) {
	router, db := newPathRouter(t)

	contentType, form := multipartForm(t, url.Values{"data": {`[{"id":11,"lat":55.1,"lon":37.1},{"id":12,"lat":55.2,"lon":37.2}]`}})
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/path_publish", contentType, form).Code)

	body := `{"points":[{"id":21,"lat":56.1,"lon":38.1},{"id":22,"lat":56.2,"lon":38.2},{"id":23,"lat":56.3,"lon":38.3}],
		"transport_id":"car-1","starts_at":"2030-01-01T10:00:00Z","ends_at":"2030-01-01T11:00:00Z"}`
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/path_publish", "application/json", body).Code)

	paths, points := countRows(t, db)
	assert.EqualValues(t, 2, paths)
	assert.EqualValues(t, 5, points)

	rr := do(router, http.MethodGet, "/user_paths", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []struct {
		TransportID *string `json:"transport_id"`
		Points      []struct {
			ID  int64   `json:"id"`
			Lat float64 `json:"lat"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	require.NotNil(t, listed[0].TransportID)
	assert.Equal(t, "car-1", *listed[0].TransportID)
	require.Len(t, listed[0].Points, 3)
	assert.Equal(t, int64(21), listed[0].Points[0].ID)
	assert.Nil(t, listed[1].TransportID)
}

func TestPublishRejections(t *testing.T) {
	router, db := newPathRouter(t)
	require.NoError(t, db.Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES ('u2', 'other', 'x', CURRENT_TIMESTAMP)").Error)
	require.NoError(t, db.Exec("INSERT INTO transports (id, user_id, seats, created_at) VALUES ('car-2', 'u2', 1, CURRENT_TIMESTAMP)").Error)

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"malformed json", "application/json", `{"points":`},
		{"form without data", "application/x-www-form-urlencoded", "x=1"},
		{"empty path", "application/json", `{"points":[]}`},
		{"foreign transport", "application/json", `{"points":[{"id":1,"lat":1,"lon":1}],"transport_id":"car-2"}`},
		{"ends before start", "application/json", `{"points":[{"id":1,"lat":1,"lon":1}],"starts_at":"2030-01-01T10:00:00Z","ends_at":"2030-01-01T09:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, http.MethodPost, "/path_publish", tt.contentType, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	paths, _ := countRows(t, db)
	assert.Zero(t, paths)
}

func TestPublishPage(t *testing.T) {
	router, _ := newPathRouter(t)

	rr := do(router, http.MethodGet, "/path_publish", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"page":"path_publish","title":"Publish a path","fields":["data","transport_id","starts_at","ends_at"]}`, rr.Body.String())
}
