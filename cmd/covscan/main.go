// Command covscan aggregates unit-test coverage across a polyglot
// monorepo: it discovers projects by marker file, runs each ecosystem's
// native coverage tool, and rolls the results up per technology.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscan/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "covscan",
		Short:         "Aggregate unit-test coverage across a polyglot monorepo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScanCmd(), newHistoryCmd())
	return root
}

// loadConfig resolves file/env config and applies flag overrides.
func loadConfig(apply func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if apply != nil {
		apply(cfg)
	}
	return cfg, nil
}
