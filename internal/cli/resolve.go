package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/wdresolve/internal/config"
	"github.com/rshade/wdresolve/internal/engine"
	"github.com/rshade/wdresolve/internal/logging"
	"github.com/rshade/wdresolve/internal/output"
	"github.com/rshade/wdresolve/internal/records"
	"github.com/rshade/wdresolve/internal/sparql"
)

// executeResolve loads the input, resolves it and writes the output file.
// Input and configuration errors are returned before the output file is
// touched. Once created, the output file is closed on every path and keeps the
// batches completed so far.
func executeResolve(cmd *cobra.Command, cfg *config.Config) (err error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	recs, err := records.Load(cfg.Files.Input)
	if err != nil {
		return err
	}
	log.Info().Ctx(ctx).Str("input", cfg.Files.Input).Int("records", len(recs)).Msg("input loaded")

	client, err := sparql.NewClient(cfg.ClientOptions())
	if err != nil {
		return err
	}
	resolver, err := engine.NewResolver(client, cfg.ResolverOptions())
	if err != nil {
		return err
	}

	writer, err := output.CreateCSV(cfg.Files.Output)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, writer.Close()) }()

	console := output.NewConsole(cmd.OutOrStdout())
	summary, err := resolver.Run(ctx, recs, writer, console)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Ctx(ctx).
				Str("output", cfg.Files.Output).
				Int("rows_written", writer.Rows()).
				Msg("interrupted, output contains completed batches only")
		}
		return err
	}

	log.Info().Ctx(ctx).Str("output", cfg.Files.Output).Int("rows_written", writer.Rows()).Msg("output written")
	return console.Summary(summary.String())
}
