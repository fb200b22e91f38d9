// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (DOCQA_* overrides, provider API keys)
//  2. Config file (~/.docqa/config.yaml, or ./config.yaml)
//  3. Default values
//
// Error handling uses sentinel errors checkable with errors.Is(), wrapped
// with context via fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/koopa0/docqa/internal/chunker"
	"github.com/koopa0/docqa/internal/ocr"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the selected provider's API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidStoreDir indicates the vector store directory is invalid.
	ErrInvalidStoreDir = errors.New("invalid store directory")

	// ErrInvalidChunking indicates the chunk size/overlap pair is invalid.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrInvalidTopK indicates the retrieval top-K is out of range.
	ErrInvalidTopK = errors.New("invalid top-k")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Defaults for the tunable knobs.
const (
	DefaultModelName     = "gemini-2.5-flash"
	DefaultEmbedderModel = "gemini-embedding-001"
	DefaultTopK          = 5
	MaxTopK              = 20
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string `mapstructure:"provider"`       // "gemini" (default), "ollama", "openai"
	ModelName     string `mapstructure:"model_name"`     // e.g. "gemini-2.5-flash", "llama3.3", "gpt-4o"
	EmbedderModel string `mapstructure:"embedder_model"` // e.g. "gemini-embedding-001"

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host"`

	// Vector store configuration
	StoreDir string `mapstructure:"store_dir"` // chromem persistence directory

	// Chunking configuration
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`

	// Retrieval configuration
	TopK int `mapstructure:"top_k"`

	// OCR configuration
	OCRBinary string `mapstructure:"ocr_binary"` // tesseract executable path

	// Logging configuration
	LogLevel string `mapstructure:"log_level"` // "debug", "info", "warn", "error"
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".docqa")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults(configDir)
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(configDir string) {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)

	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("store_dir", filepath.Join(configDir, "vectors"))

	viper.SetDefault("chunk_size", chunker.DefaultSize)
	viper.SetDefault("chunk_overlap", chunker.DefaultOverlap)

	viper.SetDefault("top_k", DefaultTopK)

	viper.SetDefault("ocr_binary", ocr.DefaultBinary)

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)
}

// bindEnvVariables binds the DOCQA_* override variables explicitly.
// Provider API keys (GEMINI_API_KEY, OPENAI_API_KEY) are read directly by
// the Genkit plugins, not via viper; Validate checks their presence.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a failure here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "DOCQA_PROVIDER")
	mustBind("model_name", "DOCQA_MODEL_NAME")
	mustBind("embedder_model", "DOCQA_EMBEDDER_MODEL")
	mustBind("ollama_host", "DOCQA_OLLAMA_HOST")
	mustBind("store_dir", "DOCQA_STORE_DIR")
	mustBind("ocr_binary", "DOCQA_OCR_BINARY")
	mustBind("log_level", "DOCQA_LOG_LEVEL")
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderGemini, "":
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required", ErrMissingAPIKey)
		}
	case ProviderOllama:
		// Local provider, no key.
	default:
		return fmt.Errorf("%w: %q (supported: gemini, ollama, openai)", ErrInvalidProvider, c.Provider)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	if c.StoreDir == "" {
		return fmt.Errorf("%w: store_dir cannot be empty", ErrInvalidStoreDir)
	}

	if err := c.Chunking().Validate(); err != nil {
		return fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunking, c.ChunkSize, c.ChunkOverlap)
	}

	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidTopK, MaxTopK, c.TopK)
	}

	return nil
}

// Chunking returns the chunker configuration derived from the loaded
// values.
func (c *Config) Chunking() chunker.Config {
	return chunker.Config{Size: c.ChunkSize, Overlap: c.ChunkOverlap}
}

// QualifiedModelName returns the provider-prefixed model identifier the
// Genkit registry expects, e.g. "googleai/gemini-2.5-flash".
func (c *Config) QualifiedModelName() string {
	switch c.Provider {
	case ProviderOllama:
		return "ollama/" + c.ModelName
	case ProviderOpenAI:
		return "openai/" + c.ModelName
	default:
		return "googleai/" + c.ModelName
	}
}
