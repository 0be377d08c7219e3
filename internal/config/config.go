package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	JWTSecret    string
	ExportDir    string
	ExportCron   string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("MEALTRACK_ENV", "development"),
		HTTPPort:     getEnv("MEALTRACK_HTTP_PORT", "8080"),
		DatabasePath: getEnv("MEALTRACK_DB_PATH", filepath.Join("data", "mealtrack.db")),
		JWTSecret:    getEnv("MEALTRACK_JWT_SECRET", "change-me-in-production"),
		ExportDir:    getEnv("MEALTRACK_EXPORT_DIR", filepath.Join("data", "exports")),
		ExportCron:   getEnv("MEALTRACK_EXPORT_CRON", "@midnight"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure export directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
