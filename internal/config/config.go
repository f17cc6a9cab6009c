// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
	appDirName        = "medanalyzer"
)

// ErrMissingAPIKey is returned when a mode needs the AI service but no key is set.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) environment variable not set")

// Config holds all application configuration
type Config struct {
	APIKey            string
	BaseURL           string
	TextModel         string
	ImageModel        string
	RequestTimeout    time.Duration // 0 means no timeout
	DataDir           string
	LogDir            string
	LogLevel          string
	LogRetentionWeeks int
	WebAddress        string
	WebPort           string
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	dataDir := getEnvWithDefault("DATA_DIR", defaultDataDir())

	cfg := &Config{
		APIKey:            firstEnv("GEMINI_API_KEY", "API_KEY"),
		BaseURL:           strings.TrimRight(getEnvWithDefault("GEMINI_BASE_URL", DefaultBaseURL), "/"),
		TextModel:         getEnvWithDefault("TEXT_MODEL", DefaultTextModel),
		ImageModel:        getEnvWithDefault("IMAGE_MODEL", DefaultImageModel),
		DataDir:           dataDir,
		LogDir:            getEnvWithDefault("LOG_DIR", filepath.Join(dataDir, "logs")),
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		WebAddress:        getEnvWithDefault("WEB_ADDRESS", "127.0.0.1"),
		WebPort:           getEnvWithDefault("WEB_PORT", "8080"),
	}

	timeout, err := parseDuration(os.Getenv("AI_REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// RequireAPIKey fails when no AI key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// WebListenAddr is the host:port the web mode binds to.
func (c *Config) WebListenAddr() string {
	return net.JoinHostPort(c.WebAddress, c.WebPort)
}

func validateConfig(cfg *Config) error {
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid GEMINI_BASE_URL: %w", err)
	}
	if strings.TrimSpace(cfg.TextModel) == "" || strings.TrimSpace(cfg.ImageModel) == "" {
		return fmt.Errorf("TEXT_MODEL and IMAGE_MODEL cannot be empty")
	}
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogRetentionWeeks <= 0 || cfg.LogRetentionWeeks > 52 {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: must be between 1 and 52, got: %d", cfg.LogRetentionWeeks)
	}
	if err := validatePort(cfg.WebPort); err != nil {
		return fmt.Errorf("invalid WEB_PORT: %w", err)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	return nil
}

func validateBaseURL(u string) error {
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("must start with http:// or https://, got: %s", u)
	}
	return nil
}

func validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("must be one of: [debug info warn error], got: %s", level)
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("must be a valid number: %w", err)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got: %s", s)
	}
	return d, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName)
	}
	return "." + appDirName
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"GEMINI_API_KEY",
		"API_KEY",
		"GEMINI_BASE_URL",
		"TEXT_MODEL",
		"IMAGE_MODEL",
		"AI_REQUEST_TIMEOUT",
		"DATA_DIR",
		"LOG_DIR",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"WEB_ADDRESS",
		"WEB_PORT",
	}
}
