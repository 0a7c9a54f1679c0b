package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvPort          = "PORT"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvDocumentPath  = "ABOUTME_DOCUMENT"
)

// loadEnvFile loads .env and .env.local when present. Existing process
// environment variables are not overwritten.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", "file", envPath, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", envPath)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			// Keep the invalid value visible to validation.
			cfg.Server.Port = -1
		}
	}
	if v, ok := os.LookupEnv(EnvAdminPassword); ok && v != "" {
		cfg.Auth.AdminPassword = v
	}
	if v := os.Getenv(EnvDocumentPath); v != "" {
		cfg.Storage.DocumentPath = v
	}
}
