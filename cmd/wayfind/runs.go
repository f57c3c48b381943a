package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingestkit/wayfind/internal/config"
	"github.com/ingestkit/wayfind/internal/database"
)

// NewRunsCmd creates the runs command for inspecting stored run history.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List stored runs or show one run's failures",
		Long: `Runs lists the navigation runs stored in the local database, newest
first. With a run ID argument it shows that run's failed results instead,
optionally filtered by error kind.

Examples:
  # List all stored runs
  wayfind runs

  # Show the failures of one run
  wayfind runs 2f1c9a60-5a8e-4d57-9c7c-8d1f2b3c4d5e

  # Only the transient failures
  wayfind runs --kind transient 2f1c9a60-5a8e-4d57-9c7c-8d1f2b3c4d5e`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunsCmd,
	}

	cmd.Flags().StringP("kind", "k", "",
		"Filter failures by error kind (e.g. not_found, transient)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no stored runs found: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only access

	if len(args) == 1 {
		kind, err := cmd.Flags().GetString("kind")
		if err != nil {
			return err
		}
		return showRunFailures(cmd, db, args[0], kind)
	}
	return listRuns(cmd, db)
}

// listRuns prints every stored run, newest first.
func listRuns(cmd *cobra.Command, db *database.ResultDB) error {
	runs, err := db.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %-13s  %s\n", run.RunID, run.Strategy, run.Seed)
		fmt.Fprintf(out, "  started %s, took %s, %d succeeded, %d failed\n",
			run.StartedAt.Format(time.DateTime), run.Duration.Round(time.Millisecond),
			run.Succeeded, run.Failed)
	}
	return nil
}

// showRunFailures prints the failed results of a single run.
func showRunFailures(cmd *cobra.Command, db *database.ResultDB, runID, kind string) error {
	run, err := db.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	failures, err := db.ListFailures(cmd.Context(), runID, kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s from %s): %d failure(s)\n", run.RunID, run.Strategy, run.Seed, len(failures))
	for _, f := range failures {
		fmt.Fprintf(out, "  [%s] depth %d  %s\n", f.ErrorKind, f.Depth, f.Target)
		if f.ErrorMessage != "" {
			fmt.Fprintf(out, "      %s\n", f.ErrorMessage)
		}
	}
	return nil
}
