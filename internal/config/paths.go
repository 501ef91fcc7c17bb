package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables read by Load.
const (
	EnvConfig    = "WDRESOLVE_CONFIG"
	EnvHome      = "WDRESOLVE_HOME"
	EnvEndpoint  = "WDRESOLVE_ENDPOINT"
	EnvProperty  = "WDRESOLVE_PROPERTY"
	EnvLogLevel  = "WDRESOLVE_LOG_LEVEL"
	EnvLogFormat = "WDRESOLVE_LOG_FORMAT"
)

const configFileName = "config.yaml"

// GetConfigDir returns the wdresolve configuration directory:
// $WDRESOLVE_HOME if set, otherwise ~/.wdresolve.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".wdresolve"), nil
}

// DefaultConfigPath returns the path of the default config file.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureLogDir creates the parent directory of the configured log file.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
