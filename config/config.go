// Package config loads server settings from the environment, with a .env
// file honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AllowedOrigins string
	GeminiAPIKey   string
	PostgresURL    string
	WordCeiling    int
	GinMode        string
}

func Load() (Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:           envOr("PORT", "5000"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		WordCeiling:    7,
		GinMode:        os.Getenv("GIN_MODE"),
	}

	if raw := os.Getenv("WORD_CEILING"); raw != "" {
		ceiling, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORD_CEILING %q: %w", raw, err)
		}
		if ceiling != 7 && ceiling != 10 {
			return Config{}, fmt.Errorf("invalid WORD_CEILING %d: must be 7 or 10", ceiling)
		}
		cfg.WordCeiling = ceiling
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
