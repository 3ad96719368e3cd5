package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hypotest/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Evaluation EvaluationConfig
	Data       DataConfig
	Log        LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	GinMode         string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory result ledger.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int `validate:"gte=1"`
}

// Enabled reports whether a Postgres ledger is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// EvaluationConfig holds defaults applied to requests that leave them unset
type EvaluationConfig struct {
	DefaultAlpha float64 `validate:"gt=0,lt=1"`
	DefaultTail  string  `validate:"oneof=two-sided upper lower"`
	BatchWorkers int     `validate:"gte=1"`
}

// DataConfig holds data ingestion settings
type DataConfig struct {
	File string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
	Format string `validate:"oneof=json console"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Database:   *loadDatabaseConfig(),
		Evaluation: *loadEvaluationConfig(),
		Data:       *loadDataConfig(),
		Log:        *loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:          getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
	}
}

func loadEvaluationConfig() *EvaluationConfig {
	return &EvaluationConfig{
		DefaultAlpha: getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
		DefaultTail:  getEnvOrDefault("DEFAULT_TAIL", "two-sided"),
		BatchWorkers: getEnvIntOrDefault("BATCH_WORKERS", 8),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File: getEnvOrDefault("DATA_FILE", ""),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ConfigInvalid(fe.Namespace() + " failed " + fe.Tag() + " (value " + toString(fe.Value()) + ")")
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case time.Duration:
		return t.String()
	default:
		return "?"
	}
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
