// Package config loads the jobs-dashboard configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName  = "jobs-dashboard"
	defaultServicePort  = 8095
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"

	defaultWindowDays   = 7
	defaultCacheMaxAgeH = 1
	defaultMaxOpenConns = 5
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string        `yaml:"name"`
	Version     string        `yaml:"version"`
	Port        int           `yaml:"port"`
	Debug       bool          `yaml:"debug"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"`
}

// DatabaseConfig holds PostgreSQL configuration. URL, when set, takes
// precedence over the individual fields.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// SourceConfig holds the reconciliation inputs: the canonical CSV listing and
// the directory of saved job HTML pages.
type SourceConfig struct {
	CSVPath     string `yaml:"csv_path"`
	ContentDir  string `yaml:"content_dir"`
	FrontendDir string `yaml:"frontend_dir"`
	WindowDays  int    `yaml:"window_days"`
	WatchCSV    bool   `yaml:"watch_csv"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config at path (if it exists), applies defaults, then
// applies environment variable overrides. A .env file is loaded first so that
// local development values are picked up.
func Load(path string) (*Config, error) {
	// Non-fatal when the file doesn't exist
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parse config: %w", unmarshalErr)
		}
	case os.IsNotExist(err):
		// Environment-only configuration is supported
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	setDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Service.CacheMaxAge == 0 {
		cfg.Service.CacheMaxAge = defaultCacheMaxAgeH * time.Hour
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Source.WindowDays == 0 {
		cfg.Source.WindowDays = defaultWindowDays
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFmt
	}
}

// applyEnvOverrides applies environment variable values over file/defaults.
// Env always wins.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Source.CSVPath, "CSV_DB_PATH")
	setString(&cfg.Source.ContentDir, "HTML_DIR")
	setString(&cfg.Source.FrontendDir, "FRONTEND_DIR")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setInt(&cfg.Service.Port, "JOBS_DASHBOARD_PORT")
	setBool(&cfg.Service.Debug, "APP_DEBUG")
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// ValidationError describes a missing or invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate validates the configuration. Missing required inputs are fatal at
// startup, before any request is served.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	if c.Database.URL == "" {
		return &ValidationError{Field: "database.url", Message: "is required (DATABASE_URL)"}
	}
	if c.Source.CSVPath == "" {
		return &ValidationError{Field: "source.csv_path", Message: "is required (CSV_DB_PATH)"}
	}
	if c.Source.ContentDir == "" {
		return &ValidationError{Field: "source.content_dir", Message: "is required (HTML_DIR)"}
	}
	return nil
}
