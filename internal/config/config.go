// Package config handles the XDG configuration directory and
// environment-based settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskmgmt"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// DefaultDevURL is the development API base URL fallback.
	DefaultDevURL = "http://localhost:8080"

	// DefaultTokenTemplate is the template identifier presented to the
	// identity provider when minting an API credential.
	DefaultTokenTemplate = "taskmgmt-api-auth-token"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Environment is "development" or "production"; selects the base URL.
	Environment string

	// BaseURL is the task API base URL for the active environment.
	BaseURL string

	// TokenURL is the identity provider's token endpoint. When set, the
	// stored session token is refreshed through it automatically.
	TokenURL string

	// ClientID identifies this client to the identity provider.
	ClientID string

	// TokenTemplate is the credential template requested at login.
	TokenTemplate string

	// Email is the owner key scoping all task operations.
	Email string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config from the environment (optionally a .env file) and
// the default or specified config directory.
func New(configDir string) (*Config, error) {
	_ = godotenv.Load(".env")

	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:           dir,
		Environment:   getString("TASKMGMT_ENV", "development"),
		TokenURL:      os.Getenv("TASKMGMT_TOKEN_URL"),
		ClientID:      os.Getenv("TASKMGMT_CLIENT_ID"),
		TokenTemplate: getString("TASKMGMT_TOKEN_TEMPLATE", DefaultTokenTemplate),
		Email:         os.Getenv("TASKMGMT_EMAIL"),
	}

	if cfg.Environment == "production" {
		cfg.BaseURL = os.Getenv("TASKMGMT_PROD_API_URL")
	} else {
		cfg.BaseURL = getString("TASKMGMT_DEV_API_URL", DefaultDevURL)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// getString reads an environment variable with a default.
func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
