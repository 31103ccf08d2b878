package application

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend names accepted by --backend / LIGHTHOUSE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNATS   = "nats"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment
// variables, and the .env file.
type RuntimeConfig struct {
	// API Configuration
	APIKey  string
	APIPort string

	// Development Mode
	DevMode bool

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Storage Configuration
	Backend   string
	StatePath string // file backend snapshot
	DBPath    string // sqlite backend database
	NATSURL   string // nats backend server

	// Tracking Configuration
	LivenessTimeout time.Duration
	SweepInterval   time.Duration
	FlushInterval   time.Duration
	MaxEvents       int
	WriteTimeout    time.Duration
}

// RuntimeFlags carries raw CLI flag values into LoadRuntimeConfig. Empty or
// zero values fall through to the environment and then to defaults.
type RuntimeFlags struct {
	APIKey          string
	APIPort         string
	DevMode         bool
	Backend         string
	StatePath       string
	DBPath          string
	NATSURL         string
	LivenessTimeout time.Duration
	SweepInterval   time.Duration
	FlushInterval   time.Duration
	MaxEvents       int
	WriteTimeout    time.Duration
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env
// vars > .env file > defaults.
func LoadRuntimeConfig(flags RuntimeFlags) *RuntimeConfig {
	return &RuntimeConfig{
		APIKey:          getValue(flags.APIKey, "LIGHTHOUSE_API_KEY", ""),
		APIPort:         getValue(flags.APIPort, "LIGHTHOUSE_API_PORT", "8080"),
		DevMode:         flags.DevMode || getBoolEnv("LIGHTHOUSE_DEV_MODE", false),
		LogLevel:        getValue("", "LIGHTHOUSE_LOG_LEVEL", "INFO"),
		LogFormat:       getValue("", "LIGHTHOUSE_LOG_FORMAT", "text"),
		LogOutput:       getValue("", "LIGHTHOUSE_LOG_OUTPUT", "stdout"),
		Backend:         getValue(flags.Backend, "LIGHTHOUSE_BACKEND", BackendFile),
		StatePath:       getValue(flags.StatePath, "LIGHTHOUSE_STATE_PATH", "lighthouse-state.json"),
		DBPath:          getValue(flags.DBPath, "LIGHTHOUSE_DB_PATH", "lighthouse.db"),
		NATSURL:         getValue(flags.NATSURL, "LIGHTHOUSE_NATS_URL", "nats://127.0.0.1:4222"),
		LivenessTimeout: getDuration(flags.LivenessTimeout, "LIGHTHOUSE_LIVENESS_TIMEOUT", 5*time.Minute),
		SweepInterval:   getDuration(flags.SweepInterval, "LIGHTHOUSE_SWEEP_INTERVAL", time.Minute),
		FlushInterval:   getDuration(flags.FlushInterval, "LIGHTHOUSE_FLUSH_INTERVAL", 5*time.Minute),
		MaxEvents:       getInt(flags.MaxEvents, "LIGHTHOUSE_MAX_EVENTS", 1000),
		WriteTimeout:    getDuration(flags.WriteTimeout, "LIGHTHOUSE_WRITE_TIMEOUT", 5*time.Second),
	}
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

func getDuration(cliValue time.Duration, envKey string, defaultValue time.Duration) time.Duration {
	if cliValue > 0 {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		if d, err := time.ParseDuration(envValue); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getInt(cliValue int, envKey string, defaultValue int) int {
	if cliValue > 0 {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		if n, err := strconv.Atoi(envValue); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// Validate checks that required configuration is present
func (c *RuntimeConfig) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "api-key", Message: "API key is required (set LIGHTHOUSE_API_KEY or use --api-key flag)"}
	}
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendNATS:
	default:
		return &ConfigError{Field: "backend", Message: fmt.Sprintf("unknown backend %q (expected file, sqlite or nats)", c.Backend)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
