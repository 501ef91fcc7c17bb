// Command wdresolve resolves external authority identifiers to Wikidata Q-codes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/wdresolve/internal/cli"
	"github.com/rshade/wdresolve/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command with a context cancelled on SIGINT/SIGTERM and
// returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
