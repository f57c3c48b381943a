package main

import (
	"github.com/spf13/cobra"

	"github.com/ingestkit/wayfind/internal/config"
	"github.com/ingestkit/wayfind/internal/model"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a web site by following hyperlinks",
		Long: `Crawl fetches pages starting from a seed URL and follows the hyperlinks
it discovers, breadth-first by default. Each URL is visited at most once,
traversal stops at the depth limit, and requests to the same host are
spaced out by the politeness interval.

Examples:
  # Crawl up to 3 hops from the seed, same host only
  wayfind crawl --same-host https://docs.example.com/

  # Depth-first crawl restricted to documentation paths
  wayfind crawl --order dfs --link-pattern '/docs/' https://example.com/

  # Polite crawl honoring robots.txt with JSON output
  wayfind crawl --robots --politeness 2s --json https://example.com/

Configuration file (.wayfind) example:
  sources:
    docs.example.com:
      depth: 5
      politenessInterval: 500ms
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum link depth from the seed (0 fetches only the seed)")
	cmd.Flags().String("order", "bfs",
		"Traversal order: bfs or dfs")
	cmd.Flags().String("link-pattern", "",
		"Only follow URLs whose path matches this regular expression")
	cmd.Flags().Bool("same-host", false,
		"Only follow links on the seed's host")
	cmd.Flags().Bool("robots", false,
		"Honor robots.txt disallow rules")
	cmd.Flags().Duration("politeness", config.DefaultPolitenessInterval,
		"Minimum spacing between requests to the same host")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Retries for transient errors (5xx, 429, network failures)")
	cmd.Flags().Duration("backoff", config.DefaultBackoffBase,
		"First retry delay; each retry doubles it")
	cmd.Flags().StringP("user-agent", "u", "",
		"Override the User-Agent header")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	addCommonFlags(cmd)
	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Strategy = model.StrategyLinkFrontier
	cfg.Seed = args[0]

	var err error
	if cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
		return err
	}
	if cfg.Order, err = cmd.Flags().GetString("order"); err != nil {
		return err
	}
	if cfg.LinkPattern, err = cmd.Flags().GetString("link-pattern"); err != nil {
		return err
	}
	if cfg.SameHostOnly, err = cmd.Flags().GetBool("same-host"); err != nil {
		return err
	}
	if cfg.RespectRobots, err = cmd.Flags().GetBool("robots"); err != nil {
		return err
	}
	if cfg.PolitenessInterval, err = cmd.Flags().GetDuration("politeness"); err != nil {
		return err
	}
	if cfg.MaxRetries, err = cmd.Flags().GetInt("retries"); err != nil {
		return err
	}
	if cfg.BackoffBase, err = cmd.Flags().GetDuration("backoff"); err != nil {
		return err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body"); err != nil {
		return err
	}
	if err := readCommonFlags(cmd, cfg); err != nil {
		return err
	}

	return executeRun(cmd, cfg)
}
