package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	apimiddleware "github.com/phrazzld/notes-api/internal/api/middleware"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/service"
)

// HealthCheck reports readiness of a backend for GET /health.
type HealthCheck func(r *http.Request) error

// NewRouter wires the middleware chain and every route onto a chi router.
// checks are run by GET /health; a failing check turns the response into a 503.
func NewRouter(svc service.AccountService, logger *slog.Logger, checks ...HealthCheck) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.NewTraceMiddleware(logger))
	r.Use(apimiddleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(apimiddleware.SecurityHeaders())

	accountHandler := NewAccountHandler(svc, logger)
	noteHandler := NewNoteHandler(svc, logger)

	r.Post("/register", accountHandler.Register)
	r.Put("/edit/{uid}", accountHandler.Edit)
	r.Delete("/delete/{uid}", accountHandler.Delete)
	r.Post("/notes/save", noteHandler.SaveNote)
	r.Get("/notes/{uid}", noteHandler.ListNotes)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		for _, check := range checks {
			if err := check(req); err != nil {
				logger.Error("health check failed", redact.Attr(err))
				http.Error(w, "UNAVAILABLE", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", redact.Attr(err))
		}
	})

	return r
}
