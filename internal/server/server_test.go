package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-pathshare/internal/config"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func testConfig(driver, dsn string) config.Config {
	return config.Config{
		AppName:          "pathshare-test",
		RequestTimeout:   5 * time.Second,
		DBDriver:         driver,
		DatabaseURL:      dsn,
		EventTransport:   config.EventTransportMemory,
		RouteCache:       config.RouteCacheMemory,
		RouteCacheTTL:    time.Minute,
		JWTSecret:        "test-secret",
		JWTIssuer:        "pathshare-test",
		TokenTTL:         time.Hour,
		RecentPathsLimit: 6,
	}
}

func newApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	require.NoError(t, cfg.Validate())
	app, err := New(context.Background(), cfg, zapAdapter.NewFromZap(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })
	return app
}

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func register(t *testing.T, c *client, name string) string {
	t.Helper()
	resp := c.do(http.MethodPost, "/registration", map[string]string{
		"name":      name,
		"email":     name + "@example.com",
		"password1": "secret",
		"password2": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func journey(t *testing.T, cfg config.Config) {
	app := newApp(t, cfg)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	anon := &client{t: t, server: srv}
	alice := &client{t: t, server: srv, token: register(t, anon, "alice")}

	resp := alice.do(http.MethodPost, "/add_transport", map[string]interface{}{
		"model":        "Lada",
		"plate_number": "A123BC",
		"seats":        3,
		"options":      []string{"music"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added struct {
		ID string `json:"id"`
	}
	decode(t, resp, &added)

	resp = alice.do(http.MethodPost, "/path_publish", map[string]interface{}{
		"transport_id": added.ID,
		"points": []map[string]interface{}{
			{"id": 1, "lat": 55.75, "lon": 37.61},
			{"id": 2, "lat": 55.76, "lon": 37.62},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = alice.do(http.MethodPost, "/path_publish", map[string]interface{}{
		"points": []map[string]interface{}{{"id": 0, "lat": 1, "lon": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = anon.do(http.MethodPost, "/build_user_path", map[string]interface{}{
		"points":     []map[string]interface{}{{"id": 7, "lat": 1, "lon": 1}, {"id": 8, "lat": 2, "lon": 2}},
		"start_time": time.Now().Add(-time.Hour),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var route struct {
		Path     []map[string]interface{} `json:"path"`
		CarPaths []map[string]interface{} `json:"car_paths"`
	}
	decode(t, resp, &route)
	assert.Len(t, route.Path, 2)
	assert.Len(t, route.CarPaths, 1)

	resp = anon.do(http.MethodGet, "/user_paths", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var paths []struct {
		TransportID *string                  `json:"transport_id"`
		Points      []map[string]interface{} `json:"points"`
	}
	decode(t, resp, &paths)
	require.Len(t, paths, 1)
	require.NotNil(t, paths[0].TransportID)
	assert.Equal(t, added.ID, *paths[0].TransportID)
	assert.Len(t, paths[0].Points, 2)

	resp = alice.do(http.MethodPost, "/delete_transport", map[string]string{"id": added.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = anon.do(http.MethodGet, "/user_paths", nil)
	decode(t, resp, &paths)
	require.Len(t, paths, 1)
	assert.Nil(t, paths[0].TransportID, "removing a transport keeps the path but unlinks it")
}

func TestJourneyInMemory(t *testing.T) {
	journey(t, testConfig(config.DBDriverMemory, ""))
}

func TestJourneySQLite(t *testing.T) {
	journey(t, testConfig(config.DBDriverSQLite, filepath.Join(t.TempDir(), "pathshare.db")))
}

func TestAuthentication(t *testing.T) {
	app := newApp(t, testConfig(config.DBDriverMemory, ""))
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	anon := &client{t: t, server: srv}

	for _, path := range []string{"/main", "/map", "/user_map_view", "/my_transport", "/add_transport"} {
		resp := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := anon.do(http.MethodPost, "/path_publish", map[string]interface{}{"points": []interface{}{}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, path := range []string{"/", "/path_publish", "/user_paths"} {
		resp := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	register(t, anon, "bobby")

	t.Run("basic credentials", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/main", nil)
		require.NoError(t, err)
		req.SetBasicAuth("bobby", "secret")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/main", nil)
		require.NoError(t, err)
		req.SetBasicAuth("bobby", "nope")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRegistrationForm(t *testing.T) {
	app := newApp(t, testConfig(config.DBDriverMemory, ""))
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	form := url.Values{"name": {"carol"}, "email": {"c@example.com"}, "password1": {"abcd"}, "password2": {"abcd"}}
	resp, err := srv.Client().Post(srv.URL+"/registration", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = srv.Client().Post(srv.URL+"/registration", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t, testConfig(config.DBDriverMemory, ""))
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	anon := &client{t: t, server: srv}
	register(t, anon, "dave")

	resp := anon.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "pathshare_")
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig("oracle", "")
	_, err := New(context.Background(), cfg, zapAdapter.NewFromZap(zaptest.NewLogger(t)))
	assert.Error(t, err)
}
