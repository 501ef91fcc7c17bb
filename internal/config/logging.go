package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/wdresolve/internal/logging"
)

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Validate checks the level and format names.
func (lc LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(lc.Level); err != nil {
		return fmt.Errorf("invalid log level %q", lc.Level)
	}
	switch lc.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q (valid: console, json)", lc.Format)
	}
}

// ToLoggingConfig converts the section to a logging.Config. A non-empty File
// selects file output; otherwise logs go to stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
