package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuhockeyratings/roster-scraper/internal/collector"
	"github.com/nuhockeyratings/roster-scraper/internal/config"
	"github.com/nuhockeyratings/roster-scraper/internal/logger"
	"github.com/nuhockeyratings/roster-scraper/internal/roster"
	"github.com/nuhockeyratings/roster-scraper/internal/scraper"
	"github.com/nuhockeyratings/roster-scraper/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time
var Version = "dev"

var (
	flagOutputDir string
	flagBaseURL   string
	flagFormat    string
	flagLogFile   string
	flagRetries   int
	flagDelay     time.Duration
	flagTimeout   time.Duration
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster-scraper <mens|womens> <season> [season...]",
		Short: "Collect unique hockey roster names across seasons",
		Long: `Scrape the men's or women's ice hockey roster for each season given,
strip jersey numbers, and write the unique player names to <team>.csv.

Example:
  roster-scraper mens 2021-22 2022-23 2023-24`,
		Args:          cobra.MinimumNArgs(2),
		RunE:          runScrape,
		Version:       Version,
		SilenceErrors: true,
	}

	defaults := config.Default()

	// Define flags
	cmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", defaults.OutputDir, "Directory for <team>.csv files")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this rotating file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().StringVar(&flagBaseURL, "base-url", defaults.BaseURL, "Athletics site base URL")
	cmd.Flags().IntVar(&flagRetries, "retries", defaults.MaxRetries, "Retries for transient fetch failures (0 disables)")
	cmd.Flags().DurationVar(&flagDelay, "delay", defaults.Delay, "Minimum delay between requests")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.Timeout, "HTTP timeout per request")

	cmd.AddCommand(newListCmd())

	return cmd
}

// loadConfig layers explicitly set flags over the environment configuration
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("retries") {
		cfg.MaxRetries = flagRetries
	}
	if flags.Changed("delay") {
		cfg.Delay = flagDelay
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogging installs the default logger and returns a function restoring the previous one
func setupLogging(cfg config.Config, w io.Writer) func() {
	level, _ := logger.ParseLevel(cfg.LogLevel) // validated by loadConfig

	var l *logger.Logger
	if cfg.LogFile != "" {
		l = logger.NewWithFile(level, w, cfg.LogFile)
	} else {
		l = logger.New(level, w)
	}

	previous := logger.Default()
	logger.SetDefault(l)

	return func() {
		l.Close() // nolint:errcheck
		logger.SetDefault(previous)
	}
}

func parseFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	format, err := parseFormat()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	restore := setupLogging(cfg, cmd.ErrOrStderr())
	defer restore()

	// An unknown team is not fatal: every season fails and nothing is written
	team, _ := roster.ParseTeam(args[0])
	seasons := args[1:]

	logger.Debug("Starting run", logger.Fields{
		"team":       team.String(),
		"seasons":    seasons,
		"base_url":   cfg.BaseURL,
		"output_dir": cfg.OutputDir,
		"retries":    cfg.MaxRetries,
	})

	sc := scraper.NewWithOptions(cfg.ScraperOptions())
	report := collector.New(sc, collector.WithDelay(cfg.Delay)).Run(cmd.Context(), team, seasons)

	result := NewOutputResult(report, flagVerbose)

	if report.Total() > 0 {
		logger.Info("Total unique players found", logger.Fields{"team": team.String(), "players": report.Total()})

		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}

		path, written, err := store.WriteRoster(team, report.Players)
		if err != nil {
			return fmt.Errorf("saving roster: %w", err)
		}
		result.OutputPath = path
		result.Written = written

		logger.Info("Data written", logger.Fields{"path": path})
	} else {
		logger.Warn("No player data was collected", logger.Fields{"team": team.String()})
	}

	if flagVerbose {
		logger.Debug("Run metrics", logger.DefaultMetrics().Snapshot().Fields())
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <mens|womens>",
		Short:     "Print the players stored in <team>.csv",
		Args:      cobra.ExactArgs(1),
		ValidArgs: teamNames(),
		RunE:      runList,
	}
}

func teamNames() []string {
	var names []string
	for _, t := range roster.Teams() {
		names = append(names, string(t))
	}
	return names
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	format, err := parseFormat()
	if err != nil {
		return err
	}

	team, err := roster.ParseTeam(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	restore := setupLogging(cfg, cmd.ErrOrStderr())
	defer restore()

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	if !store.Exists(team) {
		return fmt.Errorf("no roster saved for %s at %s", team, store.Path(team))
	}

	names, err := store.LoadRoster(team)
	if err != nil {
		return err
	}

	logger.Debug("Loaded roster", logger.Fields{"path": store.Path(team), "players": len(names)})

	return WriteNames(cmd.OutOrStdout(), team, names, format)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
