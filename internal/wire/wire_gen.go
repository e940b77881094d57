// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/citypages/sentinel/internal/app"
	"github.com/citypages/sentinel/internal/classifier"
	"github.com/citypages/sentinel/internal/config"
	"github.com/citypages/sentinel/internal/db"
	"github.com/citypages/sentinel/internal/server"
	"github.com/citypages/sentinel/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	dbConfig := provideDBConfig(cfg)
	dbConn, dbCleanup, err := db.NewDatabase(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := storage.NewStore(dbConn.DB)

	generatorLLM, err := provideGeneratorLLM(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}

	promptMgr, err := classifier.NewPromptManager()
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	sitePolicy, err := provideSitePolicy(cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to load site policy: %w", err)
	}

	cls := provideClassifier(generatorLLM, promptMgr, cfg, sitePolicy, slogLogger)
	svc := provideModerationService(cls, store, cfg, slogLogger)
	srv := server.NewServer(ctx, cfg, svc, store, slogLogger)

	application := app.NewApp(cfg, dbConn, store, cls, svc, srv, slogLogger)

	cleanup := func() {
		dbCleanup()
	}
	return application, cleanup, nil
}
