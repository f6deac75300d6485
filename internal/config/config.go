// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amaumene/goanimefr/internal/constants"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./data.db"
)

// Config holds the application configuration.
// It supports loading from environment variables and JSON files.
type Config struct {
	// Server
	Port string `json:"PORT"`

	// Storage settings
	DatabasePath string `json:"DATABASE_PATH"`
	CacheSize    int    `json:"CACHE_SIZE"`

	// Streaming enrichment
	BatchSize    int    `json:"BATCH_SIZE"`
	BatchDelayMs int    `json:"BATCH_DELAY_MS"`
	Language     string `json:"LANG_FILTER"`

	// Retry behaviour for rate-limited upstreams
	MaxRetries       int `json:"MAX_RETRIES"`
	RetryBaseDelayMs int `json:"RETRY_BASE_DELAY_MS"`
}

// Load reads configuration from environment variables and optional JSON file.
// Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Environment variables win over file values
	cfg.loadFromEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.DatabasePath = dbPath
	}
	if lang := os.Getenv("LANG_FILTER"); lang != "" {
		c.Language = lang
	}

	setIntFromEnv(&c.CacheSize, "CACHE_SIZE")
	setIntFromEnv(&c.BatchSize, "BATCH_SIZE")
	setIntFromEnv(&c.BatchDelayMs, "BATCH_DELAY_MS")
	setIntFromEnv(&c.MaxRetries, "MAX_RETRIES")
	setIntFromEnv(&c.RetryBaseDelayMs, "RETRY_BASE_DELAY_MS")
}

func setIntFromEnv(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	if c.Port == "" {
		c.Port = constants.DefaultPort
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.Language == "" {
		c.Language = constants.DefaultLanguage
	}
	if c.BatchSize <= 0 {
		c.BatchSize = constants.DefaultBatchSize
	}
	if c.BatchDelayMs < 0 {
		return fmt.Errorf("BATCH_DELAY_MS must not be negative")
	}
	if c.BatchDelayMs == 0 {
		c.BatchDelayMs = constants.DefaultBatchDelayMs
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = constants.DefaultMaxRetries
	}
	if c.RetryBaseDelayMs <= 0 {
		c.RetryBaseDelayMs = constants.DefaultRetryBaseDelayMs
	}

	return nil
}

// BatchDelay returns the inter-batch delay as a duration.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

// RetryBaseDelay returns the backoff base delay as a duration.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
