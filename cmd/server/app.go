package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/notes-api/internal/api"
	"github.com/phrazzld/notes-api/internal/config"
	"github.com/phrazzld/notes-api/internal/platform/memory"
	mongostore "github.com/phrazzld/notes-api/internal/platform/mongo"
	"github.com/phrazzld/notes-api/internal/platform/postgres"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/service"
	"github.com/phrazzld/notes-api/internal/service/auth"
	"github.com/phrazzld/notes-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *sql.DB
	mongoClient *mongo.Client

	accounts  store.AccountStore
	documents store.DocumentStore
	service   service.AccountService
	checks    []api.HealthCheck
}

// newApplication connects the configured backends and builds the service.
// On error every connection opened so far is closed.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	if cfg.Auth.TokenSecret == "" {
		logger.Warn("no token secret configured, ID tokens are signed with a per-process random key")
	}
	passwords := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	if cfg.UsesPostgres() {
		app.db, err = setupAppDatabase(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		db := app.db
		app.checks = append(app.checks, func(r *http.Request) error {
			return db.PingContext(r.Context())
		})
	}

	switch cfg.Store.IdentityBackend {
	case config.BackendMemory:
		app.accounts = memory.NewAccountStore(passwords, tokens, logger)
	case config.BackendPostgres:
		app.accounts = postgres.NewAccountStore(app.db, passwords, tokens, logger)
	default:
		return nil, fmt.Errorf("unsupported identity backend %q", cfg.Store.IdentityBackend)
	}

	switch cfg.Store.DocumentBackend {
	case config.BackendMemory:
		app.documents = memory.NewDocumentStore(logger)
	case config.BackendPostgres:
		app.documents = postgres.NewDocumentStore(app.db, logger)
	case config.BackendMongo:
		app.mongoClient, err = mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		docs := mongostore.NewDocumentStore(app.mongoClient.Database(cfg.Mongo.Database), logger)
		app.documents = docs
		app.checks = append(app.checks, func(r *http.Request) error {
			return docs.Ping(r.Context())
		})
	default:
		return nil, fmt.Errorf("unsupported document backend %q", cfg.Store.DocumentBackend)
	}

	app.service = service.NewAccountService(app.accounts, app.documents, logger)

	logger.Info("application initialized",
		slog.String("identity_backend", cfg.Store.IdentityBackend),
		slog.String("document_backend", cfg.Store.DocumentBackend))
	return app, nil
}

// router returns the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(app.service, app.logger, app.checks...)
}

// cleanup closes every open backend connection.
func (app *application) cleanup() {
	if app.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.mongoClient.Disconnect(ctx); err != nil {
			app.logger.Error("failed to disconnect mongo client", redact.Attr(err))
		}
		app.mongoClient = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", redact.Attr(err))
		}
		app.db = nil
	}
}
