package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/wdresolve/internal/config"
	"github.com/rshade/wdresolve/internal/logging"
)

// setupLogging builds the logger from the config and --debug, tags it with a
// new run ID and stores it in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogPathResult {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	if loggingCfg.File != "" {
		if err := cfg.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)

	logger := logging.ComponentLogger(result.Logger, "cli").With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")
	return result
}
