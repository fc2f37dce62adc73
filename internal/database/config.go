package database

import "fmt"

// DatabaseConfig carries everything InitDatabase needs to open a connection.
// Values come straight from the application config; Driver decides which of
// the remaining fields matter.
type DatabaseConfig struct {
	Driver string // "sqlite" (default) or "postgres"

	// Postgres connection parameters.
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLite database file. Relative paths resolve against the directory the
	// server was started from.
	Path string
}

// Fallbacks applied when the application config leaves a field empty. They
// match the dev defaults in .env.example.
const (
	defaultSSLMode    = "disable"
	defaultSQLitePath = "oauth-bridge.sqlite"
)

// DSN renders the connection string for the configured driver. An unknown
// driver renders empty; InitDatabase rejects it before dialing.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres", "postgresql":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = defaultSSLMode
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, sslMode)
	case "sqlite", "":
		if c.Path == "" {
			return defaultSQLitePath
		}
		return c.Path
	default:
		return ""
	}
}

// String masks the password so the config can be logged as-is.
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}
