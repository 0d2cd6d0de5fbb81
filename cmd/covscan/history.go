package main

import (
	"fmt"
	"strconv"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/oxhq/covscan/db"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted coverage runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openHistory()
			if err != nil {
				return err
			}
			runs, err := db.ListRuns(gdb, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-20s %12s %12s %9s\n",
				"RUN", "SCANNED AT", "COVERED", "TOTAL", "PERCENT")
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-20s %12d %12d %8.2f%%\n",
					run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Covered, run.Total, run.Percent)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list.")
	cmd.AddCommand(newHistoryDiffCmd())
	return cmd
}

func newHistoryDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <runA> <runB>",
		Short: "Show a unified diff between two runs' summaries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idA, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			idB, err := parseRunID(args[1])
			if err != nil {
				return err
			}

			gdb, err := openHistory()
			if err != nil {
				return err
			}
			runA, err := db.GetRun(gdb, idA)
			if err != nil {
				return err
			}
			runB, err := db.GetRun(gdb, idB)
			if err != nil {
				return err
			}

			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(runA.Summary),
				B:        difflib.SplitLines(runB.Summary),
				FromFile: fmt.Sprintf("run %d (%s)", runA.ID, runA.CreatedAt.Format("2006-01-02 15:04:05")),
				ToFile:   fmt.Sprintf("run %d (%s)", runB.ID, runB.CreatedAt.Format("2006-01-02 15:04:05")),
				Context:  3,
			})
			if err != nil {
				return fmt.Errorf("diffing runs: %w", err)
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Summaries are identical.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func openHistory() (*gorm.DB, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, err
	}
	return db.Connect(cfg.DatabaseDSN, cfg.Debug)
}

func parseRunID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return uint(id), nil
}
