package collector

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/nuhockeyratings/roster-scraper/internal/logger"
	"github.com/nuhockeyratings/roster-scraper/internal/roster"
	"github.com/nuhockeyratings/roster-scraper/internal/scraper"
)

// Fetcher retrieves roster pages. *scraper.Scraper implements it.
type Fetcher interface {
	FetchRoster(ctx context.Context, team roster.Team, season string) ([]byte, error)
	RosterURL(team roster.Team, season string) (string, error)
}

// SeasonResult describes what one season contributed to the run
type SeasonResult struct {
	Season  string
	URL     string
	Found   int
	Added   int
	Match   scraper.Match
	Elapsed time.Duration
	Err     error
}

// OK reports whether the season was fetched and parsed
func (r SeasonResult) OK() bool {
	return r.Err == nil
}

// Report is the outcome of a run
type Report struct {
	Team    roster.Team
	Seasons []SeasonResult
	Players *roster.PlayerSet
}

// Total returns the number of unique players collected
func (r *Report) Total() int {
	return r.Players.Len()
}

// Failed returns the number of seasons that could not be fetched or parsed
func (r *Report) Failed() int {
	failed := 0
	for _, s := range r.Seasons {
		if !s.OK() {
			failed++
		}
	}
	return failed
}

// Collector runs seasons sequentially against a Fetcher
type Collector struct {
	fetcher Fetcher
	limiter *rate.Limiter
	metrics *logger.Metrics
}

// Option configures a Collector
type Option func(*Collector)

// WithDelay spaces consecutive requests at least d apart
func WithDelay(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithMetrics records run metrics on m instead of the default tracker
func WithMetrics(m *logger.Metrics) Option {
	return func(c *Collector) {
		c.metrics = m
	}
}

// New creates a Collector
func New(fetcher Fetcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Inf, 1),
		metrics: logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes seasons in order and returns the merged players.
// Per-season failures are recorded in the report and never abort the run.
func (c *Collector) Run(ctx context.Context, team roster.Team, seasons []string) *Report {
	report := &Report{
		Team:    team,
		Seasons: make([]SeasonResult, 0, len(seasons)),
		Players: roster.NewPlayerSet(),
	}

	for _, season := range seasons {
		result := c.runSeason(ctx, team, season, report.Players)
		report.Seasons = append(report.Seasons, result)
	}

	c.metrics.SetGauge("players.unique", float64(report.Total()))
	logger.Info("Collection finished", logger.Fields{
		"team":           team.String(),
		"seasons":        len(seasons),
		"seasons_failed": report.Failed(),
		"unique_players": report.Total(),
	})

	return report
}

func (c *Collector) runSeason(ctx context.Context, team roster.Team, season string, players *roster.PlayerSet) SeasonResult {
	result := SeasonResult{Season: season}
	fields := logger.Fields{"team": team.String(), "season": season}

	// URL errors surface again from FetchRoster
	result.URL, _ = c.fetcher.RosterURL(team, season)

	if err := c.limiter.Wait(ctx); err != nil {
		result.Err = err
		c.metrics.IncrCounter("seasons.failed")
		logger.Error("Skipping season", fields, err)
		return result
	}

	start := time.Now()
	body, err := c.fetcher.FetchRoster(ctx, team, season)
	result.Elapsed = time.Since(start)
	c.metrics.RecordTiming("roster.fetch", result.Elapsed)
	if err != nil {
		result.Err = err
		c.metrics.IncrCounter("seasons.failed")
		logger.Error("Error fetching roster page", fields, err)
		return result
	}

	parsed, err := scraper.ParseRosterBytes(body)
	if err != nil {
		result.Err = err
		c.metrics.IncrCounter("seasons.failed")
		logger.Error("Error parsing roster page", fields, err)
		return result
	}
	result.Match = parsed.Match

	// A number-only node cleans to "" and still counts as a name.
	result.Found = len(parsed.Names)
	result.Added = players.AddAll(parsed.Names)

	c.metrics.IncrCounter("seasons.ok")
	fields["players"] = result.Found
	fields["new_players"] = result.Added
	fields["selector"] = string(parsed.Match)

	if result.Found == 0 {
		c.metrics.IncrCounter("seasons.empty")
		logger.Warn("No players found for season; check the page structure", fields)
		return result
	}

	logger.Info("Found players for season", fields)
	return result
}
