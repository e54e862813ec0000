// Package config loads and validates the blogassist service configuration
// from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for the blogassist service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Completion CompletionConfig `yaml:"completion"`
	Relevance  RelevanceConfig  `yaml:"relevance"`
	Logging    LoggingConfig    `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `yaml:"port" env:"BLOGASSIST_PORT"`
	Debug           bool          `yaml:"debug" env:"BLOGASSIST_DEBUG"`
	SearchLimit     int           `yaml:"search_limit" env:"BLOGASSIST_SEARCH_LIMIT"`
	RelatedLimit    int           `yaml:"related_limit"`
	ChatContextSize int           `yaml:"chat_context_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI      string        `yaml:"uri" env:"MONGO_URI"`
	Database string        `yaml:"database" env:"MONGO_DATABASE"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CompletionConfig holds configuration for the completion service endpoint.
// The endpoint speaks the OpenAI chat-completions protocol; BaseURL defaults
// to Groq's OpenAI-compatible gateway.
type CompletionConfig struct {
	BaseURL        string        `yaml:"base_url" env:"COMPLETION_BASE_URL"`
	APIKeyEnv      string        `yaml:"api_key_env"`
	Model          string        `yaml:"model" env:"COMPLETION_MODEL"`
	Temperature    float64       `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"COMPLETION_TIMEOUT"`
}

// APIKey resolves the completion API key from the configured environment
// variable. Empty is allowed at load time; the gateway rejects calls without
// a key at request time.
func (c *CompletionConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// RelevanceConfig holds field weights for the relevance engine.
type RelevanceConfig struct {
	TitleWeight      float64 `yaml:"title_weight"`
	TagWeight        float64 `yaml:"tag_weight"`
	BodyWeight       float64 `yaml:"body_weight"`
	CategoryWeight   float64 `yaml:"category_weight"`
	TagOverlapWeight float64 `yaml:"tag_overlap_weight"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)
	// Re-apply env overrides after defaults (env always wins).
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "blogassist"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8095
	}
	if cfg.Service.SearchLimit == 0 {
		cfg.Service.SearchLimit = 5
	}
	if cfg.Service.RelatedLimit == 0 {
		cfg.Service.RelatedLimit = 5
	}
	if cfg.Service.ChatContextSize == 0 {
		cfg.Service.ChatContextSize = 3
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "blog_database"
	}
	if cfg.Mongo.Timeout == 0 {
		cfg.Mongo.Timeout = 10 * time.Second
	}

	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.7
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 2048
	}
	if cfg.Completion.RequestTimeout == 0 {
		cfg.Completion.RequestTimeout = 30 * time.Second
	}

	if cfg.Relevance.TitleWeight == 0 {
		cfg.Relevance.TitleWeight = 3.0
	}
	if cfg.Relevance.TagWeight == 0 {
		cfg.Relevance.TagWeight = 2.0
	}
	if cfg.Relevance.BodyWeight == 0 {
		cfg.Relevance.BodyWeight = 1.0
	}
	if cfg.Relevance.CategoryWeight == 0 {
		cfg.Relevance.CategoryWeight = 2.0
	}
	if cfg.Relevance.TagOverlapWeight == 0 {
		cfg.Relevance.TagOverlapWeight = 1.0
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: fmt.Sprintf("invalid port: %d", c.Service.Port)}
	}
	if c.Service.SearchLimit < 1 {
		return &ValidationError{Field: "service.search_limit", Message: "must be greater than 0"}
	}
	if c.Mongo.URI == "" {
		return &ValidationError{Field: "mongo.uri", Message: "is required"}
	}
	if c.Mongo.Database == "" {
		return &ValidationError{Field: "mongo.database", Message: "is required"}
	}
	if c.Completion.Model == "" {
		return &ValidationError{Field: "completion.model", Message: "is required"}
	}
	if c.Completion.RequestTimeout <= 0 {
		return &ValidationError{Field: "completion.request_timeout", Message: "must be positive"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	return nil
}
