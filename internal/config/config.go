// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends understood by the DI container
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for the key-value database (always absolute)
	ExportDir         string // Directory where server-side exports are written (always absolute)
	StoreBackend      string // sqlite or memory
	PriceFeedSchedule string // cron spec for simulated price ticks, empty disables the feed
	LogLevel          string
	Port              int
	ItemsPerPage      int
	DevMode           bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := ensureDir(getEnv("COINDASH_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	exportDir, err := ensureDir(getEnv("EXPORT_DIR", filepath.Join(dataDir, "exports")))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare export directory: %w", err)
	}

	cfg := &Config{
		DataDir:           dataDir,
		ExportDir:         exportDir,
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSQLite)),
		PriceFeedSchedule: getEnv("PRICE_FEED_SCHEDULE", "@every 3s"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnvAsInt("GO_PORT", 8001),
		ItemsPerPage:      getEnvAsInt("ITEMS_PER_PAGE", 10),
		DevMode:           getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendSQLite, StoreBackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (want %s or %s)", c.StoreBackend, StoreBackendSQLite, StoreBackendMemory)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid GO_PORT %d", c.Port)
	}
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("invalid ITEMS_PER_PAGE %d", c.ItemsPerPage)
	}
	return nil
}

// ensureDir resolves path to an absolute directory and creates it
func ensureDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", err
	}
	return abs, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
