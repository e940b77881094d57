package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"
	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/citypages/sentinel/internal/app"
	"github.com/citypages/sentinel/internal/classifier"
	"github.com/citypages/sentinel/internal/config"
	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/db"
	"github.com/citypages/sentinel/internal/logger"
	"github.com/citypages/sentinel/internal/moderation"
	"github.com/citypages/sentinel/internal/server"
	"github.com/citypages/sentinel/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	db.NewDatabase,
	storage.NewStore,
	classifier.NewPromptManager,
	provideGeneratorLLM,
	provideSitePolicy,
	provideClassifier,
	provideModerationService,
	provideLoggerConfig,
	provideLogWriter,
	provideDBConfig,
	provideSQLXDB,
	provideSlogLogger,
)

func provideGeneratorLLM(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.AI.LLMProvider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.AI.ModelName),
			gemini.WithAPIKey(cfg.AI.GeminiAPIKey),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.AI.OllamaHost),
			ollama.WithHTTPClient(newClassifierHTTPClient()),
			ollama.WithModel(cfg.AI.ModelName),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.AI.LLMProvider)
	}
}

func provideSitePolicy(cfg *config.Config, logger *slog.Logger) (*core.SitePolicy, error) {
	policy, err := config.LoadSitePolicy(cfg.Moderation.SitePolicyFile)
	if err != nil {
		if errors.Is(err, config.ErrPolicyNotFound) {
			logger.Debug("no site policy file, using defaults", "path", cfg.Moderation.SitePolicyFile)
			return policy, nil
		}
		return nil, err
	}
	logger.Info("loaded site policy",
		"path", cfg.Moderation.SitePolicyFile,
		"extra_categories", len(policy.ExtraCategories),
	)
	return policy, nil
}

func provideClassifier(model llms.Model, prompts *classifier.PromptManager, cfg *config.Config, policy *core.SitePolicy, logger *slog.Logger) classifier.Client {
	return classifier.NewClient(model, prompts, cfg.AI.ModelName, policy, logger)
}

func provideModerationService(cls classifier.Client, store storage.Store, cfg *config.Config, logger *slog.Logger) *moderation.Service {
	return moderation.NewService(cls, store,
		cfg.Moderation.ConfidenceThreshold,
		cfg.Moderation.BatchConcurrency,
		logger,
	)
}

// newClassifierHTTPClient builds an HTTP client with generous timeouts;
// local models can take a while to answer a classification prompt.
func newClassifierHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: 5 * time.Minute,
	}
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		f, _ := os.OpenFile("sentinel.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideSQLXDB(dbConn *db.DB) *sqlx.DB {
	return dbConn.DB
}
