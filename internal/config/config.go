package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`
	SQLitePath string `json:"sqlite_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string `json:"jwt_secret"`
	SessionSecret string `json:"session_secret"`
}

// Development fallbacks, mirrored in .env.example. Production deployments
// must override both.
const (
	defaultJWTSecret     = "dev-jwt-secret-change-in-production"
	defaultSessionSecret = "dev-session-secret-change-in-production"
)

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], SQLitePath: %s, LogLevel: %s, JWTSecret: [REDACTED], SessionSecret: [REDACTED]}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.SQLitePath, c.LogLevel)
}

// LoadConfig reads the configuration from environment variables and returns a Config struct.
// Returns an error if any required environment variable is missing or invalid.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")

	port := GetEnvAsType("APP_PORT", 3000)
	environment := GetEnvWithDefault("APP_ENV", "development")

	driver := GetEnvWithDefault("DB_DRIVER", "sqlite")
	switch driver {
	case "sqlite", "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s (supported: sqlite, postgres)", driver)
	}
	if driver != "sqlite" && GetEnvWithDefault("DB_HOST", "") == "" {
		return nil, errors.New("DB_HOST environment variable is required for the postgres driver")
	}

	config := &Config{
		Port:          port,
		Host:          GetEnvWithDefault("APP_HOST", "localhost"),
		Environment:   environment,
		DBDriver:      driver,
		DBHost:        GetEnvWithDefault("DB_HOST", ""),
		DBPort:        GetEnvWithDefault("DB_PORT", "5432"),
		DBName:        GetEnvWithDefault("DB_NAME", "oauth_bridge"),
		DBUser:        GetEnvWithDefault("DB_USER", "user"),
		DBPassword:    GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:     GetEnvWithDefault("DB_SSLMODE", "disable"),
		SQLitePath:    GetEnvWithDefault("SQLITE_PATH", "oauth-bridge.sqlite"),
		LogLevel:      GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:     GetEnvWithDefault("JWT_SECRET", defaultJWTSecret),
		SessionSecret: GetEnvWithDefault("SESSION_SECRET", defaultSessionSecret),
	}

	if environment == "production" {
		if config.JWTSecret == defaultJWTSecret {
			return nil, errors.New("JWT_SECRET must be set explicitly in production")
		}
		if config.SessionSecret == defaultSessionSecret {
			return nil, errors.New("SESSION_SECRET must be set explicitly in production")
		}
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
