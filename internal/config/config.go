// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"

	"piksel-orders/internal/logger"
)

type Config struct {
	// Order Repository (PocketBase-style record API)
	PocketBaseURL        string
	PocketBaseCollection string

	// Annotation Store (Supabase)
	SupabaseDBURL      string
	SupabaseURL        string
	SupabaseServiceKey string
	StorageBucket      string

	// Google Sheets Export
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// HTTP API
	ServePort string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		PocketBaseURL:        getEnv("POCKETBASE_URL", ""),
		PocketBaseCollection: getEnv("POCKETBASE_COLLECTION", "orders"),
		SupabaseDBURL:        getEnv("SUPABASE_DB_URL", ""),
		SupabaseURL:          getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:   getEnv("SUPABASE_SERVICE_KEY", ""),
		StorageBucket:        getEnv("SUPABASE_STORAGE_BUCKET", "order-files"),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Orders"),
		ServePort:            getEnv("SERVE_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks only what every command needs. Export and annotation
// commands verify their own extra variables when they run, so listing orders
// works without a Sheets or Supabase setup.
func (c *Config) validate() error {
	if c.PocketBaseURL == "" {
		return fmt.Errorf("POCKETBASE_URL is required")
	}
	return nil
}

// RequireAnnotations checks the variables the annotation store needs.
func (c *Config) RequireAnnotations() error {
	if c.SupabaseDBURL == "" {
		return fmt.Errorf("SUPABASE_DB_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	return nil
}

// RequireExport checks the variables the spreadsheet export needs.
func (c *Config) RequireExport() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
