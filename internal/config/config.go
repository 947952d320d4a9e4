package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration for the pisces CLI.
type Config struct {
	DatabaseURL  string
	RedisURL     string
	ProjectRoot  string
	EnsembleFile string
	LogLevel     string
	StorePrefix  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	projectRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	root := getEnv("PISCES_PROJECT_ROOT", projectRoot)
	cfg := &Config{
		DatabaseURL:  getEnv("PISCES_DATABASE_URL", "postgres://localhost:5432/pisces?sslmode=disable"),
		RedisURL:     getEnv("PISCES_REDIS_URL", "redis://localhost:6379/0"),
		ProjectRoot:  root,
		EnsembleFile: getEnv("PISCES_ENSEMBLE_FILE", filepath.Join(root, "ensemble.yaml")),
		LogLevel:     getEnv("PISCES_LOG_LEVEL", "info"),
		StorePrefix:  getEnv("PISCES_STORE_PREFIX", "pisces:"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
