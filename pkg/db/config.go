package db

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Config holds the connection settings for the journal database.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// MigrationsDir defaults to <project root>/migrations.
	MigrationsDir string
}

// ConfigFromEnv reads DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME,
// DB_SSLMODE and MIGRATIONS_DIR.
func ConfigFromEnv() Config {
	return Config{
		Host:          getEnvOrDefault("DB_HOST", "localhost"),
		Port:          getEnvOrDefault("DB_PORT", "5432"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		SSLMode:       getEnvOrDefault("DB_SSLMODE", "disable"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}
}

func (c Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	return nil
}

// DSN is the key/value connection string gorm's postgres driver expects.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL is the postgres:// form used by the migrator.
func (c Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func (c Config) migrationsDir() (string, error) {
	if c.MigrationsDir != "" {
		return filepath.Abs(c.MigrationsDir)
	}
	root, err := findProjectRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	return filepath.Join(root, "migrations"), nil
}

// findProjectRoot looks for go.mod file to determine project root
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
