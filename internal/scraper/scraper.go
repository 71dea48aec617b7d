package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"

	"github.com/nuhockeyratings/roster-scraper/internal/logger"
	"github.com/nuhockeyratings/roster-scraper/internal/roster"
)

const (
	DefaultBaseURL = "https://nuhuskies.com"
	UserAgent      = "roster-scraper/1.0 (github.com/nuhockeyratings/roster-scraper)"
	Timeout        = 30 * time.Second
)

// StatusError is returned when the roster page responds with a non-2xx status
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Temporary reports whether the status is worth retrying
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// Scraper handles fetching roster pages
type Scraper struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	backOff    func() backoff.BackOff
}

// New creates a new Scraper instance with default options
func New() *Scraper {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Scraper from opts
func NewWithOptions(opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	return &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// RosterURL builds the roster page URL for a team and season.
// The season is used verbatim as the last path segment.
func (s *Scraper) RosterURL(team roster.Team, season string) (string, error) {
	segment, err := team.PathSegment()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/sports/%s/roster/%s", s.baseURL, segment, season), nil
}

// FetchRoster fetches the roster page for a team and season and returns the
// body as UTF-8. Failed attempts are retried only when MaxRetries is set and
// the failure is transient.
func (s *Scraper) FetchRoster(ctx context.Context, team roster.Team, season string) ([]byte, error) {
	rosterURL, err := s.RosterURL(team, season)
	if err != nil {
		return nil, err
	}

	logger.Info("Fetching roster", logger.Fields{
		"team":   team.String(),
		"season": season,
		"url":    rosterURL,
	})

	var body []byte
	operation := func() error {
		b, err := s.fetchOnce(ctx, rosterURL)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Roster fetch failed, retrying", logger.Fields{
			"season": season,
			"url":    rosterURL,
			"wait":   wait.String(),
			"error":  err.Error(),
		})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.backOff(), uint64(s.maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	return body, nil
}

// fetchOnce performs a single GET and transcodes the body to UTF-8
func (s *Scraper) fetchOnce(ctx context.Context, rosterURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rosterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rosterURL}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(raw) == 0 {
		return raw, nil
	}

	// The sniffer only sees the first 1024 bytes, so an uncertain guess
	// loses to a body that is valid UTF-8 throughout.
	enc, _, certain := charset.DetermineEncoding(raw, resp.Header.Get("Content-Type"))
	if !certain && utf8.Valid(raw) {
		return raw, nil
	}

	body, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	return body, nil
}
