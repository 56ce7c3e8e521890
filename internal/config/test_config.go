package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the run history database settings for integration tests
// from TEST_DB_* environment variables.
// If TEST_DB_HOST is not set, a Config with an empty DSN is returned and integration tests skip.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.Host = os.Getenv("TEST_DB_HOST")
	if cfg.Database.Host == "" {
		return cfg, nil
	}

	cfg.Database.Port = 3306
	if raw := os.Getenv("TEST_DB_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
		}
		cfg.Database.Port = port
	}

	cfg.Database.User = stringFromEnv("TEST_DB_USER", "root")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = stringFromEnv("TEST_DB_NAME", "videoingest_test")

	return cfg, nil
}
