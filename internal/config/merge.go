package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyResolver = "resolver"
	keyFiles    = "files"
	keyLogging  = "logging"
)

// ShallowMergeYAML loads a YAML file and merges it onto target. Within each
// known section only the keys present in the file replace the defaults;
// unknown top-level keys are ignored.
func ShallowMergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		var decodeErr error
		switch key {
		case keyResolver:
			decodeErr = node.Decode(&target.Resolver)
		case keyFiles:
			decodeErr = node.Decode(&target.Files)
		case keyLogging:
			decodeErr = node.Decode(&target.Logging)
		default:
			continue
		}
		if decodeErr != nil {
			return fmt.Errorf("applying config section %q from %s: %w", key, path, decodeErr)
		}
	}

	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteDefault writes the default configuration to path. Existing files are
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}

	data, err := Marshal(New())
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
