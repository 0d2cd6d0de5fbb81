package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/db"
	"github.com/oxhq/covscan/internal/config"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/report"
)

func newScanCmd() *cobra.Command {
	var (
		rootDir    string
		resultsDir string
		only       []string
		timeout    time.Duration
		noHistory  bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover projects and aggregate their test coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) {
				if cmd.Flags().Changed("root") {
					cfg.Root = rootDir
				}
				if cmd.Flags().Changed("results") {
					cfg.ResultsDir = resultsDir
				}
				if cmd.Flags().Changed("only") {
					cfg.Only = only
				}
				if cmd.Flags().Changed("timeout") {
					cfg.InvocationTimeout = timeout
				}
				if noHistory {
					cfg.HistoryEnabled = false
				}
				if verbose {
					cfg.Debug = true
				}
			})
			if err != nil {
				return err
			}
			return runScan(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "Workspace root directory to scan.")
	cmd.Flags().StringVar(&resultsDir, "results", "", "Directory receiving per-run artifacts.")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Restrict the scan to these technologies (dotnet, rust, node, go, sql).")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Wall-clock budget per coverage-tool invocation (0 = none).")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not persist this run to the history database.")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose diagnostics.")
	return cmd
}

// runScan drives one full run. Per-project failures degrade to warnings;
// the returned error reflects only structural failures (results directory,
// summary write), so the exit status matches the pipeline contract.
func runScan(ctx context.Context, cfg *config.Config, out io.Writer) error {
	start := time.Now()

	warnf := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}
	debugf := func(string, ...any) {}
	if cfg.Debug {
		debugf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	engine := core.NewEngine(cfg.Root, cfg.ExcludeDirs, debugf)
	registry := buildRegistry(cfg, engine.Root(), warnf)

	store, err := report.NewStore(cfg.ResultsDir, start)
	if err != nil {
		return err
	}

	summary := report.NewSummary(engine.Root(), start)
	filter := onlySet(cfg.Only, warnf)

	for _, provider := range registry.List() {
		if filter != nil {
			if _, ok := filter[provider.Technology()]; !ok {
				continue
			}
		}

		projects, err := engine.Discover(provider)
		if err != nil {
			return err
		}
		debugf("%s: %d logical project(s)", provider.Technology(), len(projects))

		for _, project := range projects {
			if ctx.Err() != nil {
				return fmt.Errorf("scan interrupted: %w", ctx.Err())
			}
			fmt.Fprintf(out, "[%s] %s\n", project.Tech, project.Name)

			res := provider.Measure(ctx, project)
			if res.Status != providers.StatusOK {
				warnf("%s/%s: %s (%s)", project.Tech, project.Name, res.Status, res.Reason)
			}
			summary.Add(res)

			if err := store.CopyReports(res); err != nil {
				warnf("%s/%s: %v", project.Tech, project.Name, err)
			}
		}
	}

	if err := store.WriteSummary(summary.Text()); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, summary.Render())
	fmt.Fprintf(out, "\nArtifacts: %s\n", store.Dir())

	if cfg.HistoryEnabled {
		saveHistory(cfg, summary, warnf)
	}
	return nil
}

// saveHistory persists the run; history is an artifact, so every failure
// here is a warning rather than a run failure.
func saveHistory(cfg *config.Config, summary *report.Summary, warnf func(string, ...any)) {
	gdb, err := db.Connect(cfg.DatabaseDSN, cfg.Debug)
	if err != nil {
		warnf("history: %v", err)
		return
	}
	if _, err := db.SaveRun(gdb, summary); err != nil {
		warnf("history: %v", err)
		return
	}
	if err := db.Prune(gdb, cfg.RetentionRuns); err != nil {
		warnf("history: %v", err)
	}
}
