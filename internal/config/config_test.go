package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/wdresolve/internal/config"
	"github.com/rshade/wdresolve/internal/engine"
	"github.com/rshade/wdresolve/internal/logging"
)

func TestNewDefaults(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, "P650", cfg.Resolver.Property)
	assert.Equal(t, 50, cfg.Resolver.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Resolver.Pause)
	assert.Equal(t, "blank", cfg.Resolver.OnBatchError)
	assert.Equal(t, "source.csv", cfg.Files.Input)
	assert.Equal(t, "results.csv", cfg.Files.Output)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		t.Setenv(config.EnvHome, t.TempDir())
		path := writeOverlay(t, "resolver:\n  property: P245\n")
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "P245", cfg.Resolver.Property)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("env path", func(t *testing.T) {
		t.Setenv(config.EnvConfig, writeOverlay(t, "files:\n  input: rkd.csv\n"))
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "rkd.csv", cfg.Files.Input)
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		t.Setenv(config.EnvConfig, "")
		t.Setenv(config.EnvHome, t.TempDir())
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("default file is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(config.EnvConfig, "")
		t.Setenv(config.EnvHome, home)
		require.NoError(t, config.WriteDefault(filepath.Join(home, "config.yaml"), false))
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(config.EnvHome, t.TempDir())
		t.Setenv(config.EnvProperty, "P1871")
		t.Setenv(config.EnvLogLevel, "debug")
		cfg, err := config.Load(writeOverlay(t, "resolver:\n  property: P245\n"))
		require.NoError(t, err)
		assert.Equal(t, "P1871", cfg.Resolver.Property)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvEndpoint:  "http://localhost:9999/sparql",
		config.EnvLogFormat: "json",
		config.EnvProperty:  "",
	}
	cfg := config.New()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "http://localhost:9999/sparql", cfg.Resolver.Endpoint)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "P650", cfg.Resolver.Property, "empty values are ignored")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "bad property", mutate: func(c *config.Config) { c.Resolver.Property = "650" }, wantErr: "invalid property"},
		{name: "batch too big", mutate: func(c *config.Config) { c.Resolver.BatchSize = 1001 }, wantErr: "batch size"},
		{name: "batch zero", mutate: func(c *config.Config) { c.Resolver.BatchSize = 0 }, wantErr: "batch size"},
		{name: "negative pause", mutate: func(c *config.Config) { c.Resolver.Pause = -1 }, wantErr: "pause"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.Resolver.Timeout = -1 }, wantErr: "timeout"},
		{name: "bad endpoint", mutate: func(c *config.Config) { c.Resolver.Endpoint = "query.wikidata.org" }, wantErr: "endpoint"},
		{name: "bad policy", mutate: func(c *config.Config) { c.Resolver.OnBatchError = "retry" }, wantErr: "policy"},
		{name: "no input", mutate: func(c *config.Config) { c.Files.Input = "" }, wantErr: "input"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: "log level"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := config.New()
	cfg.Resolver.OnBatchError = "skip"

	opts := cfg.ResolverOptions()
	assert.Equal(t, engine.PolicySkip, opts.OnBatchError)
	assert.Equal(t, 50, opts.BatchSize)

	cfg.Resolver.OnBatchError = " Skip"
	assert.Equal(t, engine.PolicySkip, cfg.ResolverOptions().OnBatchError)

	assert.Equal(t, 60*time.Second, cfg.ClientOptions().Timeout)
	cfg.Resolver.Timeout = 0
	assert.Negative(t, int64(cfg.ClientOptions().Timeout), "0 disables the timeout")

	lc := config.LoggingConfig{Level: "info", File: "/tmp/wdresolve.log"}.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, lc.Output)
	assert.Equal(t, logging.OutputStderr, config.LoggingConfig{}.ToLoggingConfig().Output)
}
