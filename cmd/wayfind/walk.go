package main

import (
	"github.com/spf13/cobra"

	"github.com/ingestkit/wayfind/internal/config"
	"github.com/ingestkit/wayfind/internal/model"
)

// NewWalkCmd creates the walk command.
func NewWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk <directory>",
		Short: "Walk a directory tree and yield matching files",
		Long: `Walk traverses a directory tree breadth-first starting from the given
root and yields the content of every file that passes the extension and
name filters. Directories only extend the traversal; they never appear
in the output.

Examples:
  # Yield every markdown file under the documentation tree
  wayfind walk --ext .md /srv/docs

  # Restrict by name pattern and depth
  wayfind walk --name-pattern 'chapter-*' --max-depth 2 /srv/docs

  # Markdown report written to a file
  wayfind walk --ext .md --markdown -o report.md /srv/docs`,
		Args: cobra.ExactArgs(1),
		RunE: runWalkCmd,
	}

	cmd.Flags().IntP("max-depth", "d", config.DefaultWalkDepth,
		"Maximum directory depth below the root")
	cmd.Flags().StringSliceP("ext", "e", nil,
		"Only yield files with these extensions (e.g. .md,.txt)")
	cmd.Flags().String("name-pattern", "",
		"Only yield files whose base name matches this glob")

	addCommonFlags(cmd)
	return cmd
}

// runWalkCmd executes the walk command.
func runWalkCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Strategy = model.StrategyPathWalk
	cfg.Seed = args[0]

	var err error
	if cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
		return err
	}
	if cfg.Extensions, err = cmd.Flags().GetStringSlice("ext"); err != nil {
		return err
	}
	if cfg.NamePattern, err = cmd.Flags().GetString("name-pattern"); err != nil {
		return err
	}
	if err := readCommonFlags(cmd, cfg); err != nil {
		return err
	}

	return executeRun(cmd, cfg)
}
