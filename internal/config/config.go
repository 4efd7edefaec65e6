package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, read from the environment.
type Config struct {
	// Database
	DBPath string

	// CSV export destination
	ExportDir string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:    getEnv("DB_PATH", "expenses.db"),
		ExportDir: getEnv("EXPORT_DIR", "."),
		LogFile:   getEnv("LOG_FILE", ""),
		LogLevel:  getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Validate checks the configuration and creates missing directories.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create database directory '%s': %w", dir, err)
		}
	}
	if c.ExportDir != "" && c.ExportDir != "." {
		if err := os.MkdirAll(c.ExportDir, 0755); err != nil {
			return fmt.Errorf("create export directory '%s': %w", c.ExportDir, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return level
}
