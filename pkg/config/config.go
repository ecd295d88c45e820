package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// APIConfig holds backend connection configuration
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	// LegacyToken carries the superseded bearer-token credential path.
	// Leave empty to rely on the session cookie.
	LegacyToken string
}

// SessionConfig holds session cache configuration
type SessionConfig struct {
	// FilePath is where the persistent profile cache lives when the user
	// opted into remember-me. Session-scoped (in-memory) storage is used
	// otherwise.
	FilePath   string
	RememberMe bool
}

// DemoConfig holds demo-mode configuration
type DemoConfig struct {
	Enabled    bool
	Port       string
	SigningKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	Env     string
	API     APIConfig
	Session SessionConfig
	Demo    DemoConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	// Initialize config struct with values from environment
	config := &Config{
		Env: getEnv("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/api"),
			RequestTimeout: getEnvAsDuration("API_REQUEST_TIMEOUT", 10*time.Second),
			LegacyToken:    getEnv("API_LEGACY_TOKEN", ""),
		},
		Session: SessionConfig{
			FilePath:   getEnv("SESSION_FILE", defaultSessionFile()),
			RememberMe: getEnvAsBool("SESSION_REMEMBER_ME", false),
		},
		Demo: DemoConfig{
			Enabled:    getEnvAsBool("DEMO_MODE", false),
			Port:       getEnv("DEMO_PORT", "8080"),
			SigningKey: getEnv("DEMO_SIGNING_KEY", "demosecretkey"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "entrance_client"),
		},
	}

	return config, nil
}

// LogFields returns the configuration as zap fields for startup logging
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Env),
		zap.String("api_base_url", c.API.BaseURL),
		zap.Duration("api_request_timeout", c.API.RequestTimeout),
		zap.Bool("demo_mode", c.Demo.Enabled),
		zap.Bool("remember_me", c.Session.RememberMe),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".entrance-session.json"
	}
	return home + "/.entrance-session.json"
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as booleans
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
