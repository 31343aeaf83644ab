package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"POSTGRES_HOST"`
		Port            string `yaml:"port" env:"POSTGRES_PORT"`
		User            string `yaml:"user" env:"POSTGRES_USER"`
		Password        string `yaml:"password" env:"POSTGRES_PASSWORD"`
		DBName          string `yaml:"dbname" env:"POSTGRES_DB"`
		SSLMode         string `yaml:"sslmode" env:"POSTGRES_SSLMODE"`
		MaxConns        int    `yaml:"max_conns" env:"DATABASE_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DATABASE_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
		LogQueries      bool   `yaml:"log_queries" env:"DATABASE_ECHO"`
		MigrateOnStart  bool   `yaml:"migrate_on_start" env:"DATABASE_MIGRATE_ON_START"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	WAHA struct {
		BaseURL string `yaml:"base_url" env:"WAHA_BASE_URL"`
		APIKey  string `yaml:"api_key" env:"WAHA_API_KEY"`
		Session string `yaml:"session" env:"WAHA_SESSION"`
		Timeout string `yaml:"timeout" env:"WAHA_TIMEOUT"`
	} `yaml:"waha"`

	Seed struct {
		Enabled    bool     `yaml:"enabled" env:"SEED_ENABLED"`
		Ministries []string `yaml:"ministries" env:"SEED_MINISTRIES"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env file is not an error; variables already set win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8000"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "10s"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "church_manager"
	config.Database.Password = "church"
	config.Database.DBName = "church_schedule_db"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 30
	config.Database.MinConns = 5
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrateOnStart = true

	// JWT defaults
	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "church-scheduler"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// WAHA defaults
	config.WAHA.BaseURL = "http://localhost:3000"
	config.WAHA.Session = "default"
	config.WAHA.Timeout = "10s"

	// Seed defaults
	config.Seed.Enabled = false
	config.Seed.Ministries = []string{"Worship", "Sound", "Media", "Kids", "Hospitality"}
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.MaxConns < 1 || config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("invalid database pool size: min %d, max %d", config.Database.MinConns, config.Database.MaxConns)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"server shutdown timeout":      config.Server.ShutdownTimeout,
		"database connection lifetime": config.Database.ConnMaxLifetime,
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"WAHA timeout":                 config.WAHA.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if _, err := url.ParseRequestURI(config.WAHA.BaseURL); err != nil {
		return fmt.Errorf("invalid WAHA base URL: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Duration parses a duration validated by LoadConfig, falling back to def
func Duration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
