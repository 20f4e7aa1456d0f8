// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies secrets file and environment parsing, precedence, and validation
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load consults for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(key, EnvPrefix+"_") || key == "OPENAI_API_KEY" {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.KnowledgeBase != "news" {
		t.Errorf("KnowledgeBase = %s, want news", cfg.KnowledgeBase)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4.1" {
		t.Errorf("ChatModel = %s, want gpt-4.1", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-ada-002", cfg.EmbeddingModel)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.BatchSize)
	}
	if cfg.TruncateChars != 3000 {
		t.Errorf("TruncateChars = %d, want 3000", cfg.TruncateChars)
	}
	if cfg.BatchDelay != 200*time.Millisecond {
		t.Errorf("BatchDelay = %v, want 200ms", cfg.BatchDelay)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("NEWSBOT_KNOWLEDGE_BASE", "data/kb")
	t.Setenv("NEWSBOT_OPENAI_CHAT_MODEL", "gpt-4o")
	t.Setenv("NEWSBOT_EMBEDDING_BATCH_SIZE", "25")
	t.Setenv("NEWSBOT_EMBEDDING_BATCH_DELAY", "1s")
	t.Setenv("NEWSBOT_RETRIEVAL_TOP_K", "7")
	t.Setenv("NEWSBOT_OPENAI_MAX_RETRIES", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.KnowledgeBase != "data/kb" {
		t.Errorf("KnowledgeBase = %s, want data/kb", cfg.KnowledgeBase)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %s, want gpt-4o", cfg.ChatModel)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if cfg.BatchDelay != time.Second {
		t.Errorf("BatchDelay = %v, want 1s", cfg.BatchDelay)
	}
	if cfg.TopK != 7 {
		t.Errorf("TopK = %d, want 7", cfg.TopK)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
}

func TestLoad_SecretsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "secrets.toml")
	content := `[openai]
api_key = "file-key"

[retrieval]
top_k = 5

[knowledge]
base = "kompas"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// secrets file wins over OPENAI_API_KEY
	if cfg.OpenAIKey != "file-key" {
		t.Errorf("OpenAIKey = %s, want file-key", cfg.OpenAIKey)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.KnowledgeBase != "kompas" {
		t.Errorf("KnowledgeBase = %s, want kompas", cfg.KnowledgeBase)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", cfg.ConfigFile, path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			KnowledgeBase:  "news",
			OpenAIKey:      "k",
			ChatModel:      "gpt-4.1",
			EmbeddingModel: "text-embedding-ada-002",
			Timeout:        time.Second,
			BatchSize:      10,
			TruncateChars:  3000,
			TopK:           3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "batch size"},
		{"zero truncate", func(c *Config) { c.TruncateChars = 0 }, "truncate chars"},
		{"negative delay", func(c *Config) { c.BatchDelay = -time.Second }, "batch delay"},
		{"zero top-k", func(c *Config) { c.TopK = 0 }, "top-k"},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }, "max retries"},
		{"empty kb", func(c *Config) { c.KnowledgeBase = " " }, "knowledge base"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := &Config{KnowledgeBase: "news", ChatModel: "m", EmbeddingModel: "e", Timeout: time.Second, BatchSize: 0, TruncateChars: 0, TopK: 0}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"API key", "batch size", "truncate chars", "top-k"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}
