package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"fleetops/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Import   ImportConfig
	Timezone *time.Location
	LogLevel string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// ImportConfig holds spreadsheet import settings
type ImportConfig struct {
	ChunkSize        int
	SheetName        string
	DefaultPlateType string
	SessionTTL       time.Duration
	MaxUploadBytes   int64
}

// DefaultImportConfig returns the defaults used when no environment is set
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		ChunkSize:        500,
		SheetName:        "Tasks",
		DefaultPlateType: "4W",
		SessionTTL:       30 * time.Minute,
		MaxUploadBytes:   50 * 1024 * 1024,
	}
}

// Load reads configuration from environment variables and validates it.
// DATABASE_URL is only required when requireDatabase is set.
func Load(requireDatabase bool) (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig(requireDatabase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Import = *loadImportConfig()
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	loc, err := time.LoadLocation(getEnvOrDefault("APP_TIMEZONE", "Asia/Bangkok"))
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid("APP_TIMEZONE is not a valid IANA zone"), err.Error())
	}
	config.Timezone = loc

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig(required bool) (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" && required {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:             url,
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadImportConfig() *ImportConfig {
	defaults := DefaultImportConfig()
	return &ImportConfig{
		ChunkSize:        getEnvIntOrDefault("IMPORT_CHUNK_SIZE", defaults.ChunkSize),
		SheetName:        getEnvOrDefault("IMPORT_SHEET", defaults.SheetName),
		DefaultPlateType: getEnvOrDefault("IMPORT_DEFAULT_PLATE_TYPE", defaults.DefaultPlateType),
		SessionTTL:       getEnvDurationOrDefault("IMPORT_SESSION_TTL", defaults.SessionTTL),
		MaxUploadBytes:   int64(getEnvIntOrDefault("IMPORT_MAX_UPLOAD_MB", 50)) * 1024 * 1024,
	}
}

func validateConfig(config *Config) error {
	// 500 is the store's per-transaction write ceiling
	if config.Import.ChunkSize <= 0 || config.Import.ChunkSize > 500 {
		return errors.ConfigInvalid("IMPORT_CHUNK_SIZE must be between 1 and 500")
	}
	if config.Import.SessionTTL <= 0 {
		return errors.ConfigInvalid("IMPORT_SESSION_TTL must be positive")
	}
	if config.Import.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("IMPORT_MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
