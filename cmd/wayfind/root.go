// Package main provides the entry point for the wayfind CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wayfind.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wayfind",
		Short: "Retrieval engine for connected sources",
		Long: `Wayfind fetches documents from connected sources and follows the
references it finds along the way: hyperlinks on web pages, entries in
directory trees, and pagination cursors over SQL query results.

Every run starts from a single seed, visits each target at most once,
and yields one result per fetched document.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewWalkCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
