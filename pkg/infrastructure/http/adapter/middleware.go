package adapter

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-pathshare/pkg/application"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or mints a uuid, and stores it on the
// request context for the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(application.WithRequestID(r.Context(), requestID)))
	})
}

type errorSlotKey struct{}

type errorSlot struct {
	err error
}

func recordError(r *http.Request, err error) {
	if slot, ok := r.Context().Value(errorSlotKey{}).(*errorSlot); ok {
		slot.err = err
	}
}

// AccessLog writes one entry per request once the response is complete. Errors
// passed to WriteServerError are logged at error level with the request fields.
func AccessLog(logger application.AppLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			slot := &errorSlot{}
			r = r.WithContext(context.WithValue(r.Context(), errorSlotKey{}, slot))
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if slot.err != nil {
				application.LogError(r.Context(), logger, "http request failed", slot.err, fields)
				return
			}
			application.LogInfo(r.Context(), logger, "http request", fields)
		})
	}
}
