package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("server port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.AI.LLMProvider != "ollama" {
		t.Errorf("provider = %s, want ollama", cfg.AI.LLMProvider)
	}
	if cfg.Moderation.ConfidenceThreshold != 70 {
		t.Errorf("confidence threshold = %d, want 70", cfg.Moderation.ConfidenceThreshold)
	}
	if cfg.Moderation.BatchConcurrency != 2 {
		t.Errorf("batch concurrency = %d, want 2", cfg.Moderation.BatchConcurrency)
	}
	if cfg.Moderation.SitePolicyFile != ".sentinel.yml" {
		t.Errorf("site policy file = %s, want .sentinel.yml", cfg.Moderation.SitePolicyFile)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v, want info/text defaults", cfg.Logging)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("MODEL_NAME", "gemini-2.0-flash")
	t.Setenv("MODERATION_CONFIDENCE_THRESHOLD", "90")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AI.LLMProvider != "gemini" {
		t.Errorf("provider = %s, want gemini", cfg.AI.LLMProvider)
	}
	if cfg.AI.ModelName != "gemini-2.0-flash" {
		t.Errorf("model = %s, want gemini-2.0-flash", cfg.AI.ModelName)
	}
	if cfg.Moderation.ConfidenceThreshold != 90 {
		t.Errorf("threshold = %d, want 90", cfg.Moderation.ConfidenceThreshold)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unsupported provider", "LLM_PROVIDER", "openai"},
		{"threshold too low", "MODERATION_CONFIDENCE_THRESHOLD", "0"},
		{"threshold too high", "MODERATION_CONFIDENCE_THRESHOLD", "101"},
		{"zero concurrency", "MODERATION_BATCH_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig() succeeded with %s=%s, want error", tt.key, tt.value)
			}
		})
	}
}

func TestLoadSitePolicy(t *testing.T) {
	t.Run("missing file returns defaults and sentinel error", func(t *testing.T) {
		policy, err := LoadSitePolicy(filepath.Join(t.TempDir(), ".sentinel.yml"))
		if !errors.Is(err, ErrPolicyNotFound) {
			t.Fatalf("error = %v, want ErrPolicyNotFound", err)
		}
		if policy == nil || len(policy.ExtraCategories) != 0 {
			t.Errorf("policy = %+v, want empty defaults", policy)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := writePolicyFile(t, "extra_categories:\n  - off-topic\ncustom_instructions:\n  - \"Posts in Spanish are welcome.\"\n")
		policy, err := LoadSitePolicy(path)
		if err != nil {
			t.Fatalf("LoadSitePolicy() error = %v", err)
		}
		if len(policy.ExtraCategories) != 1 || policy.ExtraCategories[0] != "off-topic" {
			t.Errorf("extra categories = %v, want [off-topic]", policy.ExtraCategories)
		}
		if len(policy.CustomInstructions) != 1 {
			t.Errorf("custom instructions = %v, want one entry", policy.CustomInstructions)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writePolicyFile(t, "extra_categories: [unclosed\n")
		if _, err := LoadSitePolicy(path); !errors.Is(err, ErrPolicyParsing) {
			t.Errorf("error = %v, want ErrPolicyParsing", err)
		}
	})
}

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".sentinel.yml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	return path
}
