// Package config loads wdresolve configuration.
//
// Values are layered: built-in defaults, then the YAML config file, then
// WDRESOLVE_* environment variables. Command-line flags are applied on top by
// the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rshade/wdresolve/internal/engine"
	"github.com/rshade/wdresolve/internal/engine/batch"
	"github.com/rshade/wdresolve/internal/sparql"
)

// Default file names, relative to the working directory.
const (
	DefaultInputFile  = "source.csv"
	DefaultOutputFile = "results.csv"
)

// Config is the complete wdresolve configuration.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver"`
	Files    FilesConfig    `yaml:"files"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ResolverConfig controls how identifiers are looked up.
type ResolverConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Property     string        `yaml:"property"`
	BatchSize    int           `yaml:"batch_size"`
	Pause        time.Duration `yaml:"pause"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	EntityBase   string        `yaml:"entity_base"`
	OnBatchError string        `yaml:"on_batch_error"`
}

// FilesConfig names the input and output CSV files.
type FilesConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Endpoint:     sparql.DefaultEndpoint,
			Property:     engine.DefaultProperty,
			BatchSize:    batch.DefaultBatchSize,
			Pause:        engine.DefaultPause,
			Timeout:      sparql.DefaultTimeout,
			UserAgent:    sparql.DefaultUserAgent,
			EntityBase:   engine.DefaultEntityBase,
			OnBatchError: string(engine.DefaultOnBatchError),
		},
		Files: FilesConfig{
			Input:  DefaultInputFile,
			Output: DefaultOutputFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the config file at path and the
// environment. An empty path falls back to $WDRESOLVE_CONFIG and then to the
// default location; a missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		if p, err := DefaultConfigPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err = ShallowMergeYAML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Resolver.Endpoint = v
	}
	if v, ok := lookup(EnvProperty); ok && v != "" {
		c.Resolver.Property = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if err := sparql.ValidateProperty(c.Resolver.Property); err != nil {
		errs = append(errs, err)
	}
	if c.Resolver.BatchSize < batch.MinBatchSize || c.Resolver.BatchSize > batch.MaxBatchSize {
		errs = append(errs, fmt.Errorf("%w: got %d", batch.ErrInvalidBatchSize, c.Resolver.BatchSize))
	}
	if c.Resolver.Pause < 0 {
		errs = append(errs, fmt.Errorf("pause must be >= 0, got %s", c.Resolver.Pause))
	}
	if c.Resolver.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", c.Resolver.Timeout))
	}
	if u, err := url.Parse(c.Resolver.Endpoint); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("endpoint must be an http(s) URL, got %q", c.Resolver.Endpoint))
	}
	if _, err := engine.ParsePolicy(c.Resolver.OnBatchError); err != nil {
		errs = append(errs, err)
	}
	if c.Files.Input == "" {
		errs = append(errs, errors.New("input file must be set"))
	}
	if c.Files.Output == "" {
		errs = append(errs, errors.New("output file must be set"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ResolverOptions converts the resolver section for engine.NewResolver.
func (c *Config) ResolverOptions() engine.Options {
	policy, err := engine.ParsePolicy(c.Resolver.OnBatchError)
	if err != nil {
		// Left as is for NewResolver to reject.
		policy = engine.Policy(c.Resolver.OnBatchError)
	}
	return engine.Options{
		Property:     c.Resolver.Property,
		BatchSize:    c.Resolver.BatchSize,
		Pause:        c.Resolver.Pause,
		EntityBase:   c.Resolver.EntityBase,
		OnBatchError: policy,
	}
}

// ClientOptions converts the resolver section for sparql.NewClient.
func (c *Config) ClientOptions() sparql.ClientOptions {
	timeout := c.Resolver.Timeout
	if timeout == 0 {
		// 0 in the config file means "no timeout".
		timeout = -1
	}
	return sparql.ClientOptions{
		Endpoint:  c.Resolver.Endpoint,
		UserAgent: c.Resolver.UserAgent,
		Timeout:   timeout,
	}
}
