package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nuhockeyratings/roster-scraper/internal/logger"
	"github.com/nuhockeyratings/roster-scraper/internal/roster"
	"github.com/nuhockeyratings/roster-scraper/internal/scraper"
)

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) RosterURL(team roster.Team, season string) (string, error) {
	segment, err := team.PathSegment()
	if err != nil {
		return "", err
	}
	return "https://example.test/sports/" + segment + "/roster/" + season, nil
}

func (f *fakeFetcher) FetchRoster(ctx context.Context, team roster.Team, season string) ([]byte, error) {
	f.calls = append(f.calls, season)
	if _, err := team.PathSegment(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[season]; ok {
		return nil, err
	}
	return []byte(f.pages[season]), nil
}

func page(names ...string) string {
	var b strings.Builder
	for i, name := range names {
		b.WriteString(`<div class="sidearm-roster-player-name"><span>`)
		b.WriteString(string(rune('1' + i)))
		b.WriteString(`</span><h3>`)
		b.WriteString(name)
		b.WriteString(`</h3></div>`)
	}
	return b.String()
}

func TestRun_DeduplicatesAcrossSeasons(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"2022-23": page("Doe", "Lee"),
			"2023-24": page("Lee", "Park"),
		},
	}

	metrics := logger.NewMetrics()
	report := New(f, WithMetrics(metrics)).Run(context.Background(), roster.Mens, []string{"2022-23", "2023-24"})

	if report.Total() != 3 {
		t.Errorf("Total() = %d, want 3", report.Total())
	}

	want := []string{"Doe", "Lee", "Park"}
	if got := report.Players.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}

	if len(report.Seasons) != 2 {
		t.Fatalf("got %d season results, want 2", len(report.Seasons))
	}
	if s := report.Seasons[1]; s.Found != 2 || s.Added != 1 {
		t.Errorf("second season Found=%d Added=%d, want 2 and 1", s.Found, s.Added)
	}
	if report.Seasons[0].Match != scraper.MatchPrimary {
		t.Errorf("Match = %q, want primary", report.Seasons[0].Match)
	}

	if metrics.Counter("seasons.ok") != 2 {
		t.Errorf("seasons.ok = %d, want 2", metrics.Counter("seasons.ok"))
	}
}

func TestRun_FailedSeasonIsSkipped(t *testing.T) {
	fetchErr := errors.New("connection refused")
	f := &fakeFetcher{
		pages: map[string]string{
			"2021-22": page("Jones"),
			"2023-24": page("Jones", "Smith"),
		},
		errs: map[string]error{
			"2022-23": fetchErr,
		},
	}

	metrics := logger.NewMetrics()
	report := New(f, WithMetrics(metrics)).Run(context.Background(), roster.Womens, []string{"2021-22", "2022-23", "2023-24"})

	wantCalls := []string{"2021-22", "2022-23", "2023-24"}
	if !reflect.DeepEqual(f.calls, wantCalls) {
		t.Errorf("fetch order = %v, want %v", f.calls, wantCalls)
	}

	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}
	if !errors.Is(report.Seasons[1].Err, fetchErr) {
		t.Errorf("season error = %v, want %v", report.Seasons[1].Err, fetchErr)
	}

	want := []string{"Jones", "Smith"}
	if got := report.Players.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
	if metrics.Counter("seasons.failed") != 1 {
		t.Errorf("seasons.failed = %d, want 1", metrics.Counter("seasons.failed"))
	}
}

func TestRun_EmptySeason(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"2023-24": `<p>Roster coming soon</p>`,
			"2024-25": page("99"),
		},
	}

	metrics := logger.NewMetrics()
	report := New(f, WithMetrics(metrics)).Run(context.Background(), roster.Mens, []string{"2023-24", "2024-25"})

	if report.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0 (empty is not an error)", report.Failed())
	}
	if report.Seasons[0].Match != scraper.MatchNone {
		t.Errorf("Match = %q, want none", report.Seasons[0].Match)
	}
	if report.Seasons[0].Found != 0 {
		t.Errorf("2023-24 Found = %d, want 0", report.Seasons[0].Found)
	}
	// A number-only element still matches and yields an empty name
	if report.Seasons[1].Found != 1 {
		t.Errorf("2024-25 Found = %d, want 1", report.Seasons[1].Found)
	}
	if report.Total() != 1 {
		t.Errorf("Total() = %d, want 1", report.Total())
	}
	if metrics.Counter("seasons.empty") != 1 {
		t.Errorf("seasons.empty = %d, want 1", metrics.Counter("seasons.empty"))
	}
}

func TestRun_EmptyNamesCounted(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"2022-23": page("Doe", "42"),
			"2023-24": page("7", "Doe"),
		},
	}

	report := New(f, WithMetrics(logger.NewMetrics())).Run(context.Background(), roster.Mens, []string{"2022-23", "2023-24"})

	first, second := report.Seasons[0], report.Seasons[1]
	if first.Found != 2 || first.Added != 2 {
		t.Errorf("2022-23 found/added = %d/%d, want 2/2", first.Found, first.Added)
	}
	if second.Found != 2 || second.Added != 0 {
		t.Errorf("2023-24 found/added = %d/%d, want 2/0", second.Found, second.Added)
	}

	if got, want := report.Players.Sorted(), []string{"", "Doe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %q, want %q", got, want)
	}
}

func TestRun_UnknownTeam(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	s := scraper.NewWithOptions(scraper.Options{BaseURL: server.URL})
	report := New(s, WithMetrics(logger.NewMetrics())).Run(context.Background(), roster.Team("coed"), []string{"2022-23", "2023-24"})

	if report.Total() != 0 {
		t.Errorf("Total() = %d, want 0", report.Total())
	}
	if report.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", report.Failed())
	}
	for _, s := range report.Seasons {
		if !errors.Is(s.Err, roster.ErrUnknownTeam) {
			t.Errorf("season %s error = %v, want ErrUnknownTeam", s.Season, s.Err)
		}
	}
	if calls != 0 {
		t.Errorf("server called %d times, want 0", calls)
	}
}

func TestRun_WithScraper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sports/mens-ice-hockey/roster/2022-23":
			w.Write([]byte(page("Doe", "Lee")))
		case "/sports/mens-ice-hockey/roster/2023-24":
			w.Write([]byte(`<a class="sidearm-roster-player-name">Lee 7</a><a class="sidearm-roster-player-name">Park 8</a>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s := scraper.NewWithOptions(scraper.Options{BaseURL: server.URL})
	report := New(s, WithMetrics(logger.NewMetrics())).Run(context.Background(), roster.Mens, []string{"2022-23", "2023-24", "1999-00"})

	want := []string{"Doe", "Lee", "Park"}
	if got := report.Players.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
	if report.Seasons[1].Match != scraper.MatchFallback {
		t.Errorf("Match = %q, want fallback", report.Seasons[1].Match)
	}
	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}
	if !strings.HasSuffix(report.Seasons[2].URL, "/sports/mens-ice-hockey/roster/1999-00") {
		t.Errorf("URL = %q", report.Seasons[2].URL)
	}
}

func TestRun_Delay(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"a": page("Doe"),
			"b": page("Lee"),
			"c": page("Park"),
		},
	}

	start := time.Now()
	New(f, WithDelay(20*time.Millisecond), WithMetrics(logger.NewMetrics())).Run(context.Background(), roster.Mens, []string{"a", "b", "c"})

	// first request is immediate, the next two wait
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("run took %v, want at least 35ms with a 20ms delay", elapsed)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"a": page("Doe")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := New(f, WithDelay(time.Hour), WithMetrics(logger.NewMetrics())).Run(ctx, roster.Mens, []string{"a"})

	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}
	if len(f.calls) != 0 {
		t.Errorf("fetch called %d times, want 0", len(f.calls))
	}
}
