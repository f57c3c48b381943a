package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingestkit/wayfind/internal/config"
	"github.com/ingestkit/wayfind/internal/database"
	"github.com/ingestkit/wayfind/internal/driver"
	"github.com/ingestkit/wayfind/internal/engine"
	"github.com/ingestkit/wayfind/internal/log"
	"github.com/ingestkit/wayfind/internal/model"
	"github.com/ingestkit/wayfind/internal/navigator"
	"github.com/ingestkit/wayfind/internal/report"
)

// addCommonFlags registers the flags shared by every run subcommand.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of results to yield (0 disables the cap)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Fetch concurrency (1 keeps strict traversal order)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wayfind in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not persist results to the local database")
}

// readCommonFlags populates the shared config fields from cobra flags.
func readCommonFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return err
	}
	if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}
	if !noSave {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	// Load per-source configurations from the config file.
	// If the user explicitly specified a path, error if not found.
	// Otherwise silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.SourceConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SourceConfigs = &config.File{
			Sources: make(map[string]config.SourceConfig),
		}
	}

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// sourceConfigFor returns the per-source overrides for the run's seed.
// link_frontier keys on the seed host, the other strategies on the seed
// itself.
func sourceConfigFor(cfg *config.Config) config.SourceConfig {
	if cfg.SourceConfigs == nil {
		return config.SourceConfig{}
	}

	key := cfg.Seed
	if cfg.Strategy == model.StrategyLinkFrontier {
		if u, err := url.Parse(cfg.Seed); err == nil && u.Host != "" {
			key = u.Host
		}
	}
	return cfg.SourceConfigs.GetSourceConfig(key)
}

// applySourceConfig folds per-source overrides into the run config.
func applySourceConfig(cfg *config.Config, sc config.SourceConfig) {
	if sc.Depth > 0 {
		cfg.MaxDepth = sc.Depth
	}
	if sc.PolitenessInterval != "" {
		if d, err := time.ParseDuration(sc.PolitenessInterval); err == nil && d >= 0 {
			cfg.PolitenessInterval = d
		}
	}
	if len(sc.IgnorePatterns) > 0 {
		cfg.IgnorePatterns = sc.IgnorePatterns
	}
	if len(sc.FollowPatterns) > 0 {
		cfg.FollowPatterns = sc.FollowPatterns
	}
}

// executeRun validates the config, builds the engine for the configured
// strategy, drains it, and writes the report. Shared by the crawl, walk,
// and query subcommands.
func executeRun(cmd *cobra.Command, cfg *config.Config) error {
	applySourceConfig(cfg, sourceConfigFor(cfg))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	eng, cleanup, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	logger.Info("starting run",
		"strategy", string(cfg.Strategy),
		"seed", cfg.Seed,
		"maxDepth", cfg.MaxDepth,
		"workers", cfg.Workers,
	)

	results, runErr := eng.All(ctx)
	summary := *eng.Summary()

	// A cancelled run still reports what it yielded.
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := outputReport(cfg, summary, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg, summary, results, logger); err != nil {
			logger.Error("failed to save run", "runID", summary.RunID, "error", err)
		}
	}

	return nil
}

// buildEngine constructs the navigator, driver table, and engine for the
// configured strategy. The returned cleanup releases driver resources and
// may be nil.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, func(), error) {
	nav, err := buildNavigator(cfg)
	if err != nil {
		return nil, nil, err
	}

	drivers, cleanup, err := buildDrivers(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMaxResults(cfg.MaxPages),
	}
	if cfg.Workers > 1 {
		opts = append(opts, engine.WithWorkers(cfg.Workers))
	}

	eng, err := engine.New(nav, drivers, opts...)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, err
	}
	return eng, cleanup, nil
}

// buildNavigator constructs the navigator for the configured strategy.
func buildNavigator(cfg *config.Config) (navigator.Navigator, error) {
	switch cfg.Strategy {
	case model.StrategyLinkFrontier:
		order := navigator.OrderBFS
		if cfg.Order == "dfs" {
			order = navigator.OrderDFS
		}
		opts := []navigator.LinkFrontierOption{
			navigator.WithCrawlOrder(order),
			navigator.WithCrawlMaxDepth(cfg.MaxDepth),
			navigator.WithSameHostOnly(cfg.SameHostOnly),
		}
		if cfg.LinkPattern != "" {
			re, err := compileLinkPattern(cfg.LinkPattern)
			if err != nil {
				return nil, err
			}
			opts = append(opts, navigator.WithLinkPattern(re))
		}
		if len(cfg.IgnorePatterns) > 0 {
			opts = append(opts, navigator.WithIgnorePatterns(cfg.IgnorePatterns))
		}
		if len(cfg.FollowPatterns) > 0 {
			opts = append(opts, navigator.WithFollowPatterns(cfg.FollowPatterns))
		}
		return navigator.NewLinkFrontier(cfg.Seed, opts...)

	case model.StrategyPathWalk:
		opts := []navigator.PathWalkOption{
			navigator.WithWalkMaxDepth(cfg.MaxDepth),
		}
		if len(cfg.Extensions) > 0 {
			opts = append(opts, navigator.WithExtensions(cfg.Extensions))
		}
		if cfg.NamePattern != "" {
			opts = append(opts, navigator.WithNamePattern(cfg.NamePattern))
		}
		if len(cfg.IgnorePatterns) > 0 {
			opts = append(opts, navigator.WithWalkIgnorePatterns(cfg.IgnorePatterns))
		}
		if len(cfg.FollowPatterns) > 0 {
			opts = append(opts, navigator.WithWalkFollowPatterns(cfg.FollowPatterns))
		}
		return navigator.NewPathWalk(cfg.Seed, opts...)

	case model.StrategyPagination:
		return navigator.NewPagination(cfg.Seed, cfg.Query, cfg.PageSize)

	default:
		return nil, config.ErrInvalidStrategy
	}
}

// compileLinkPattern compiles the --link-pattern value, wrapping compile
// errors with the offending pattern.
func compileLinkPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid link pattern %q: %w", pattern, err)
	}
	return re, nil
}

// buildDrivers constructs the driver table for the configured strategy.
func buildDrivers(cfg *config.Config) ([]driver.Driver, func(), error) {
	switch cfg.Strategy {
	case model.StrategyLinkFrontier:
		client := &http.Client{Timeout: 30 * time.Second}

		opts := []driver.HTTPOption{
			driver.WithMaxBodySize(cfg.MaxBodySize),
			driver.WithMaxRetries(cfg.MaxRetries),
			driver.WithBackoffBase(cfg.BackoffBase),
			driver.WithPolitenessInterval(cfg.PolitenessInterval),
			driver.WithRobotsPolicy(cfg.RespectRobots),
		}
		if cfg.UserAgent != "" {
			opts = append(opts, driver.WithUserAgent(cfg.UserAgent))
		}
		if sc := sourceConfigFor(cfg); len(sc.Headers) > 0 {
			opts = append(opts, driver.WithHeaders(sc.Headers))
		}
		return []driver.Driver{driver.NewHTTPDriver(client, opts...)}, nil, nil

	case model.StrategyPathWalk:
		return []driver.Driver{driver.NewFileDriver()}, nil, nil

	case model.StrategyPagination:
		qd := driver.NewQueryDriver()
		cleanup := func() { _ = qd.Close() }
		return []driver.Driver{qd}, cleanup, nil

	default:
		return nil, nil, config.ErrInvalidStrategy
	}
}

// outputReport writes the run report in the requested format.
func outputReport(cfg *config.Config, summary model.RunSummary, results []model.Result) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// 0600: reports may include fetched content that should only be
		// readable by the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only failure at close is harmless
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(summary, results)
	return err
}

// saveRun persists the run summary and every result to the local database.
func saveRun(ctx context.Context, cfg *config.Config, summary model.RunSummary, results []model.Result, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // best effort cleanup

	if err := db.SaveRun(ctx, summary); err != nil {
		return err
	}
	for _, res := range results {
		if err := db.SaveResult(ctx, summary.RunID, res); err != nil {
			return err
		}
	}

	logger.Info("run saved to database", "runID", summary.RunID, "results", len(results), "dir", cfg.DBDir)
	return nil
}
