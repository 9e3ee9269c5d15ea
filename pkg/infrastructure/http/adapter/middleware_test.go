package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/go-pathshare/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func TestRequestIDPropagatesHeader(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = application.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = application.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestAccessLogRecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zapAdapter.NewFromZap(zap.New(core))

	handler := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusTeapot, "short and stout")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/build_path", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.EqualValues(t, http.StatusTeapot, fields["status"])
		assert.Equal(t, "/build_path", fields["path"])
	}
}

func TestWriteServerErrorLogsButHidesCause(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zapAdapter.NewFromZap(zap.New(core))

	handler := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteServerError(w, r, errors.New("pq: password authentication failed"))
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/my_transport", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, rr.Body.String())

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "pq: password authentication failed", fields["error"])
		assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
	}
}

func TestWriteServerErrorCanceled(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteServerError(rr, httptest.NewRequest(http.MethodGet, "/", nil), context.Canceled)

	assert.Equal(t, StatusClientClosedRequest, rr.Code)
	assert.JSONEq(t, `{"message":"request canceled"}`, rr.Body.String())
}
