// ABOUTME: Centralized configuration for the newsbot knowledge-base chatbot
// ABOUTME: Loads secrets.toml and NEWSBOT_* environment variables via viper, with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no OpenAI API key is configured
var ErrMissingAPIKey = errors.New("missing OpenAI API key: set [openai] api_key in secrets.toml or the OPENAI_API_KEY environment variable")

// EnvPrefix is the prefix for environment overrides, e.g. NEWSBOT_RETRIEVAL_TOP_K
const EnvPrefix = "NEWSBOT"

// Config holds all configuration for the chatbot
type Config struct {
	// Knowledge settings
	KnowledgeBase string

	// OpenAI settings
	OpenAIKey      string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Embedding settings
	BatchSize     int
	TruncateChars int
	BatchDelay    time.Duration

	// Retrieval and prompt settings
	TopK         int
	Instructions string

	// HTTP server
	ServerAddr string

	// ConfigFile is the secrets file that was read, empty if none
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("knowledge.base", "news")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.chat_model", "gpt-4.1")
	v.SetDefault("openai.embedding_model", "text-embedding-ada-002")
	v.SetDefault("openai.timeout", 30*time.Second)
	v.SetDefault("openai.max_retries", 0)
	v.SetDefault("openai.retry_delay", 2*time.Second)
	v.SetDefault("embedding.batch_size", 10)
	v.SetDefault("embedding.truncate_chars", 3000)
	v.SetDefault("embedding.batch_delay", 200*time.Millisecond)
	v.SetDefault("retrieval.top_k", 3)
	v.SetDefault("prompt.instructions", "")
	v.SetDefault("server.addr", ":8080")
}

// Load reads configuration from a secrets file and the environment.
// With an empty path, secrets.toml is looked up in . and .streamlit/ and
// its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("secrets")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath(".streamlit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading secrets.toml: %w", err)
			}
		}
	}

	// secrets file first, plain OPENAI_API_KEY second
	apiKey := v.GetString("openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg := &Config{
		KnowledgeBase:  v.GetString("knowledge.base"),
		OpenAIKey:      apiKey,
		BaseURL:        v.GetString("openai.base_url"),
		ChatModel:      v.GetString("openai.chat_model"),
		EmbeddingModel: v.GetString("openai.embedding_model"),
		Timeout:        v.GetDuration("openai.timeout"),
		MaxRetries:     v.GetInt("openai.max_retries"),
		RetryDelay:     v.GetDuration("openai.retry_delay"),
		BatchSize:      v.GetInt("embedding.batch_size"),
		TruncateChars:  v.GetInt("embedding.truncate_chars"),
		BatchDelay:     v.GetDuration("embedding.batch_delay"),
		TopK:           v.GetInt("retrieval.top_k"),
		Instructions:   v.GetString("prompt.instructions"),
		ServerAddr:     v.GetString("server.addr"),
		ConfigFile:     v.ConfigFileUsed(),
	}

	return cfg, cfg.Validate()
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.OpenAIKey == "" {
		result = multierror.Append(result, ErrMissingAPIKey)
	}
	if strings.TrimSpace(c.KnowledgeBase) == "" {
		result = multierror.Append(result, errors.New("knowledge base path must not be empty"))
	}
	if c.ChatModel == "" || c.EmbeddingModel == "" {
		result = multierror.Append(result, errors.New("chat and embedding models must be set"))
	}
	if c.BatchSize < 1 || c.BatchSize > 2048 {
		result = multierror.Append(result, fmt.Errorf("embedding batch size must be 1-2048, got %d", c.BatchSize))
	}
	if c.TruncateChars < 1 {
		result = multierror.Append(result, fmt.Errorf("truncate chars must be positive, got %d", c.TruncateChars))
	}
	if c.BatchDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("batch delay must not be negative, got %v", c.BatchDelay))
	}
	if c.TopK < 1 {
		result = multierror.Append(result, fmt.Errorf("top-k must be positive, got %d", c.TopK))
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		result = multierror.Append(result, fmt.Errorf("max retries must be 0-10, got %d", c.MaxRetries))
	}
	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}

	return result.ErrorOrNil()
}
