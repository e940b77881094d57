// Package config loads the application's configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/citypages/sentinel/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig
	Database   DBConfig
	AI         AIConfig
	Moderation ModerationConfig
	Logging    logger.Config
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// AIConfig selects the classification model. The model identifier is a
// fixed configuration value, never user-selectable at runtime.
type AIConfig struct {
	LLMProvider  string
	OllamaHost   string
	ModelName    string
	GeminiAPIKey string
}

// ModerationConfig carries the policy constants. They are deliberately
// not tunable through any exposed interface.
type ModerationConfig struct {
	ConfidenceThreshold int
	BatchConcurrency    int
	SitePolicyFile      string
}

// LoadConfig reads configuration from environment variables and a .env
// file, sets defaults, and validates the few fields that have invariants.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "sentinel")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "sentinel")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")
	viper.SetDefault("LLM_PROVIDER", "ollama")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("MODEL_NAME", "gemma3:latest")
	viper.SetDefault("MODERATION_CONFIDENCE_THRESHOLD", 70)
	viper.SetDefault("MODERATION_BATCH_CONCURRENCY", 2)
	viper.SetDefault("SITE_POLICY_FILE", ".sentinel.yml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no .env file loaded", "error", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		AI: AIConfig{
			LLMProvider:  viper.GetString("LLM_PROVIDER"),
			OllamaHost:   viper.GetString("OLLAMA_HOST"),
			ModelName:    viper.GetString("MODEL_NAME"),
			GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
		},
		Moderation: ModerationConfig{
			ConfidenceThreshold: viper.GetInt("MODERATION_CONFIDENCE_THRESHOLD"),
			BatchConcurrency:    viper.GetInt("MODERATION_BATCH_CONCURRENCY"),
			SitePolicyFile:      viper.GetString("SITE_POLICY_FILE"),
		},
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.LLMProvider {
	case "ollama", "gemini":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.AI.LLMProvider)
	}

	if t := c.Moderation.ConfidenceThreshold; t < 1 || t > 100 {
		return fmt.Errorf("MODERATION_CONFIDENCE_THRESHOLD must be between 1 and 100, got %d", t)
	}
	if n := c.Moderation.BatchConcurrency; n < 1 {
		return fmt.Errorf("MODERATION_BATCH_CONCURRENCY must be at least 1, got %d", n)
	}
	return nil
}
