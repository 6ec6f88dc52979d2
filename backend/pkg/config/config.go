package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "ollama-tools/backend/pkg/errors"
)

const (
	// DefaultOllamaEndpoint is the public Ollama API root
	DefaultOllamaEndpoint = "https://ollama.com/api"
	// DefaultHTTPTimeout bounds every outbound call made by the transport
	DefaultHTTPTimeout = 30 * time.Second
)

// Secret holds a sensitive value. It never prints or serializes its content.
type Secret string

// String implements fmt.Stringer
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString keeps %#v from leaking the value
func (s Secret) GoString() string {
	return s.String()
}

// MarshalJSON implements json.Marshaler
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Value returns the raw secret
func (s Secret) Value() string {
	return string(s)
}

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Ollama
	OllamaAPIKey       Secret
	OllamaEndpoint     string
	OllamaScopedClient bool // Build a client pre-scoped to the endpoint instead of per-request bearer auth
	HTTPTimeout        time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		OllamaAPIKey:       Secret(getEnv("OLLAMA_API_KEY", "")),
		OllamaEndpoint:     strings.TrimRight(getEnv("OLLAMA_ENDPOINT", DefaultOllamaEndpoint), "/"),
		OllamaScopedClient: getEnvBool("OLLAMA_SCOPED_CLIENT", false),
		HTTPTimeout:        getEnvDuration("OLLAMA_HTTP_TIMEOUT", DefaultHTTPTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.OllamaEndpoint == "" {
		return apperrors.NewConfigMissingRequired("OLLAMA_ENDPOINT")
	}
	u, err := url.Parse(c.OllamaEndpoint)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigValidationFailed("OLLAMA_ENDPOINT", "must be an absolute http(s) URL")
	}
	if c.HTTPTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("OLLAMA_HTTP_TIMEOUT", "must be positive")
	}
	// The API key is optional here: a missing key only matters for a plain
	// client and is reported when a tool is called.
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if result, err := time.ParseDuration(value); err == nil {
			return result
		}
	}
	return defaultValue
}
