// Package app wires together the configuration, storage, classifier and
// HTTP server of the moderation service.
package app

import (
	"log/slog"

	"github.com/citypages/sentinel/internal/classifier"
	"github.com/citypages/sentinel/internal/config"
	"github.com/citypages/sentinel/internal/db"
	"github.com/citypages/sentinel/internal/moderation"
	"github.com/citypages/sentinel/internal/server"
	"github.com/citypages/sentinel/internal/storage"
)

// App holds the main application components. The storage, classifier and
// moderation service are exported for the CLI, which drives them directly
// instead of going through the HTTP surface.
type App struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	DB         *db.DB
	Store      storage.Store
	Classifier classifier.Client
	Moderation *moderation.Service

	server *server.Server
}

// NewApp assembles the application from its constructed dependencies.
func NewApp(
	cfg *config.Config,
	dbConn *db.DB,
	store storage.Store,
	cls classifier.Client,
	svc *moderation.Service,
	srv *server.Server,
	logger *slog.Logger,
) *App {
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		DB:         dbConn,
		Store:      store,
		Classifier: cls,
		Moderation: svc,
		server:     srv,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.Info("starting Sentinel",
		"server_port", a.Cfg.Server.Port,
		"llm_provider", a.Cfg.AI.LLMProvider,
		"model", a.Cfg.AI.ModelName,
		"confidence_threshold", a.Cfg.Moderation.ConfidenceThreshold,
	)
	return a.server.Start()
}

// Stop shuts down the application cleanly. The HTTP server stops first so
// no new moderation requests arrive while dependencies wind down.
func (a *App) Stop() error {
	a.Logger.Info("shutting down Sentinel services")

	if err := a.server.Stop(); err != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", err)
		return err
	}

	a.Logger.Info("Sentinel stopped successfully")
	return nil
}
