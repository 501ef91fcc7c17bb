package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/wdresolve/internal/config"
	"github.com/rshade/wdresolve/internal/engine"
	"github.com/rshade/wdresolve/internal/logging"
)

// resolveFlags holds the flag values of the root command. They are applied on
// top of the loaded configuration only when explicitly set.
type resolveFlags struct {
	property     string
	input        string
	output       string
	batchSize    int
	pause        string
	timeout      string
	endpoint     string
	onBatchError string
}

// session carries per-invocation state set up by PersistentPreRunE.
type session struct {
	cfg       *config.Config
	logResult *logging.LogPathResult
}

type configKey struct{}

// configFromContext returns the configuration loaded for this invocation.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root command. Running it without a subcommand resolves
// the input CSV.
func NewRootCmd(ver string) *cobra.Command {
	return newRootCmd(ver, &session{})
}

func newRootCmd(ver string, sess *session) *cobra.Command {
	var flags resolveFlags
	defaults := config.New()

	cmd := &cobra.Command{
		Use:   "wdresolve",
		Short: "Resolve authority identifiers to Wikidata Q-codes",
		Long: `Resolve external authority identifiers (RKD, ULAN, CERL, ...) to Wikidata
entities. Records are read from a CSV with recordnumber and external_uri columns,
looked up in batches against the Wikidata SPARQL endpoint, and written to a CSV
with the matching Q-code and entity link.`,
		Version:       ver,
		Example:       rootCmdExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return sess.setup(cmd)
		},
		// Subcommands without their own close, such as completion, end here.
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return sess.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() { err = sess.closeWith(err) }()

			if err = applyFlagOverrides(cmd, sess.cfg, flags); err != nil {
				return err
			}
			return executeResolve(cmd, sess.cfg)
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.wdresolve/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	f := cmd.Flags()
	f.StringVarP(&flags.property, "property", "p", defaults.Resolver.Property,
		"Wikidata property ID (P245 for ULAN, P650 for RKD artists, P1871 for CERL)")
	f.StringVarP(&flags.input, "input", "i", defaults.Files.Input, "input CSV with recordnumber,external_uri columns")
	f.StringVarP(&flags.output, "output", "o", defaults.Files.Output, "output CSV path")
	f.IntVar(&flags.batchSize, "batch-size", defaults.Resolver.BatchSize, "identifiers per SPARQL query (1-1000)")
	f.StringVar(&flags.pause, "pause", defaults.Resolver.Pause.String(), "pause between batches")
	f.StringVar(&flags.timeout, "timeout", defaults.Resolver.Timeout.String(), "HTTP timeout per query (0 disables)")
	f.StringVar(&flags.endpoint, "endpoint", defaults.Resolver.Endpoint, "SPARQL endpoint URL")
	f.StringVar(&flags.onBatchError, "on-batch-error", defaults.Resolver.OnBatchError,
		"what to write for records of a failed batch: blank or skip")

	cmd.AddCommand(newConfigCmd(sess))
	return cmd
}

const rootCmdExample = `  # Resolve RKD artist URIs in source.csv to results.csv
  wdresolve

  # Resolve ULAN URIs
  wdresolve --property P245

  # Resolve CERL IDs from a custom file, 100 per query
  wdresolve -p P1871 -i cerl.csv -o cerl-qcodes.csv --batch-size 100

  # Leave failed batches out of the output instead of writing blank rows
  wdresolve --on-batch-error skip`

// setup loads configuration and logging and stores both in the command context.
func (s *session) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	s.start(cmd, cfg)
	return nil
}

// setupDefaults is setup without reading a config file, for commands that
// create or replace the file.
func (s *session) setupDefaults(cmd *cobra.Command) error {
	cfg := config.New()
	cfg.ApplyEnv(os.LookupEnv)
	s.start(cmd, cfg)
	return nil
}

func (s *session) start(cmd *cobra.Command, cfg *config.Config) {
	s.cfg = cfg

	result := setupLogging(cmd, cfg)
	s.logResult = &result

	cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
}

// close releases the log file. It is safe to call more than once.
func (s *session) close() error {
	if s.logResult == nil {
		return nil
	}
	err := s.logResult.Close()
	s.logResult = nil
	return err
}

// closeWith closes the session and joins the result with err.
func (s *session) closeWith(err error) error {
	return errors.Join(err, s.close())
}

// applyFlagOverrides copies explicitly set flags onto cfg and validates the result.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags resolveFlags) error {
	changed := cmd.Flags().Changed

	if changed("property") {
		cfg.Resolver.Property = flags.property
	}
	if changed("input") {
		cfg.Files.Input = flags.input
	}
	if changed("output") {
		cfg.Files.Output = flags.output
	}
	if changed("batch-size") {
		cfg.Resolver.BatchSize = flags.batchSize
	}
	if changed("endpoint") {
		cfg.Resolver.Endpoint = flags.endpoint
	}
	if changed("on-batch-error") {
		cfg.Resolver.OnBatchError = flags.onBatchError
	}
	if p, err := engine.ParsePolicy(cfg.Resolver.OnBatchError); err == nil {
		cfg.Resolver.OnBatchError = string(p)
	}
	if changed("pause") {
		d, err := parseDuration("pause", flags.pause)
		if err != nil {
			return err
		}
		cfg.Resolver.Pause = d
	}
	if changed("timeout") {
		d, err := parseDuration("timeout", flags.timeout)
		if err != nil {
			return err
		}
		cfg.Resolver.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
