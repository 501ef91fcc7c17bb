package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/wdresolve/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(sess), newConfigShowCmd(sess))
	return cmd
}

// newConfigInitCmd writes a config file populated with the defaults.
func newConfigInitCmd(sess *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with default values to the --config path, or to
~/.wdresolve/config.yaml ($WDRESOLVE_HOME/config.yaml) when --config is not given.`,
		Example: `  # Create the default configuration file
  wdresolve config init

  # Overwrite an existing file
  wdresolve config init --force`,
		Args: cobra.NoArgs,
		// The target file may be missing or invalid, so it is not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return sess.setupDefaults(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() { err = sess.closeWith(err) }()

			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if err = config.WriteDefault(path, force); err != nil {
				return err
			}
			cmd.Printf("Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// newConfigShowCmd prints the effective configuration (defaults, file and
// environment merged) as YAML.
func newConfigShowCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() { err = sess.closeWith(err) }()

			data, err := config.Marshal(configFromContext(cmd.Context()))
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
