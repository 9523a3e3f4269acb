package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/notes-api/internal/api/middleware"
	"github.com/phrazzld/notes-api/internal/api/shared"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var seenTrace, seenRequestID string
	handler := chimiddleware.RequestID(middleware.NewTraceMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenTrace = shared.GetTraceID(r.Context())
			seenRequestID = logger.RequestID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
		})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/u1", nil))

	assert.NotEmpty(t, seenTrace)
	assert.NotEmpty(t, seenRequestID)
	assert.Equal(t, seenTrace, rec.Header().Get(shared.TraceIDHeader))
	logger.AssertLogField(t, buf, "trace_id", seenTrace)
	logger.AssertLogField(t, buf, "request_id", seenRequestID)
}

func TestRequestLogger(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	handler := middleware.NewTraceMiddleware(log)(middleware.RequestLogger(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("done"))
		})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notes/save", nil))

	logger.AssertLogField(t, buf, "msg", "http request")
	logger.AssertLogField(t, buf, "status", float64(http.StatusCreated))
	logger.AssertLogField(t, buf, "path", "/notes/save")
	logger.AssertLogField(t, buf, "bytes", float64(4))
}

func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rec.Header()
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", h.Get("Referrer-Policy"))
	assert.Equal(t, "max-age=15552000; includeSubDomains", h.Get("Strict-Transport-Security"))
	assert.Equal(t, "same-origin", h.Get("Cross-Origin-Opener-Policy"))
	assert.Equal(t, "0", h.Get("X-XSS-Protection"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'")
}
