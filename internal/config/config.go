package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	DBPath       string
	SettingsPath string
	BackupDir    string

	// Location used to decide what "today" is for membership expiry and access stats.
	Location *time.Location

	RateLimitRPS   float64
	RateLimitBurst int

	// Cron spec for the auto-backup check. Empty disables the scheduler.
	AutoBackupCheck string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", "127.0.0.1:8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBPath:       getEnv("DB_PATH", "data/gimnasio.db"),
		SettingsPath: getEnv("SETTINGS_PATH", "config/config.json"),
		BackupDir:    getEnv("BACKUP_DIR", "backups"),

		AutoBackupCheck: getEnv("AUTO_BACKUP_CHECK", "@hourly"),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
