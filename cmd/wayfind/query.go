package main

import (
	"github.com/spf13/cobra"

	"github.com/ingestkit/wayfind/internal/config"
	"github.com/ingestkit/wayfind/internal/model"
)

// NewQueryCmd creates the query command.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <database>",
		Short: "Page through a SQL query over a SQLite database",
		Long: `Query executes a SQL statement against a SQLite database file and pages
through the result set with LIMIT/OFFSET, yielding one result per page.
The run ends when a page comes back short, so the query should carry a
stable ORDER BY.

Examples:
  # Page through a documents table, 100 rows at a time
  wayfind query --query 'SELECT id, body FROM docs ORDER BY id' corpus.db

  # Smaller pages with JSON output
  wayfind query -q 'SELECT * FROM events ORDER BY ts' --page-size 25 --json events.db`,
		Args: cobra.ExactArgs(1),
		RunE: runQueryCmd,
	}

	cmd.Flags().StringP("query", "q", "",
		"SQL statement to page through (required, should include ORDER BY)")
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Rows per page")

	addCommonFlags(cmd)
	return cmd
}

// runQueryCmd executes the query command.
func runQueryCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Strategy = model.StrategyPagination
	cfg.Seed = args[0]

	var err error
	if cfg.Query, err = cmd.Flags().GetString("query"); err != nil {
		return err
	}
	if cfg.PageSize, err = cmd.Flags().GetInt("page-size"); err != nil {
		return err
	}
	if err := readCommonFlags(cmd, cfg); err != nil {
		return err
	}

	return executeRun(cmd, cfg)
}
