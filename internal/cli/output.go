package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nuhockeyratings/roster-scraper/internal/collector"
	"github.com/nuhockeyratings/roster-scraper/internal/roster"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// SeasonOutput summarizes one season
type SeasonOutput struct {
	Season     string `json:"season"`
	URL        string `json:"url,omitempty"`
	Players    int    `json:"players"`
	NewPlayers int    `json:"new_players"`
	Selector   string `json:"selector,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt     time.Time      `json:"checked_at"`
	Team          string         `json:"team"`
	Seasons       []SeasonOutput `json:"seasons"`
	UniquePlayers int            `json:"unique_players"`
	Players       []string       `json:"players,omitempty"`
	OutputPath    string         `json:"output_path,omitempty"`
	Written       bool           `json:"written"`
}

// NewOutputResult builds the summary for a collector report.
// The player list is only included when verbose is set.
func NewOutputResult(report *collector.Report, verbose bool) *OutputResult {
	result := &OutputResult{
		CheckedAt:     time.Now().UTC(),
		Team:          report.Team.String(),
		Seasons:       make([]SeasonOutput, 0, len(report.Seasons)),
		UniquePlayers: report.Total(),
	}

	for _, s := range report.Seasons {
		out := SeasonOutput{
			Season:     s.Season,
			URL:        s.URL,
			Players:    s.Found,
			NewPlayers: s.Added,
			Selector:   string(s.Match),
		}
		if s.Err != nil {
			out.Error = s.Err.Error()
		}
		result.Seasons = append(result.Seasons, out)
	}

	if verbose {
		result.Players = report.Players.Sorted()
	}

	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	for _, s := range result.Seasons {
		switch {
		case s.Error != "":
			fmt.Fprintf(w, "%s: FAILED (%s)\n", s.Season, s.Error)
		case s.Players == 0:
			fmt.Fprintf(w, "%s: no players found\n", s.Season)
		default:
			fmt.Fprintf(w, "%s: %d players (%d new)\n", s.Season, s.Players, s.NewPlayers)
		}
		if verbose && s.URL != "" {
			fmt.Fprintf(w, "     URL: %s\n", s.URL)
			if s.Selector != "" {
				fmt.Fprintf(w, "     Selector: %s\n", s.Selector)
			}
		}
	}

	if result.UniquePlayers == 0 {
		fmt.Fprintln(w, "\nNo player data was collected.")
		return nil
	}

	if verbose {
		fmt.Fprintln(w)
		for _, name := range result.Players {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}

	fmt.Fprintf(w, "\nTotal unique players: %d\n", result.UniquePlayers)
	if result.Written {
		fmt.Fprintf(w, "Data written to %s\n", result.OutputPath)
	}

	return nil
}

// WriteNames prints a stored roster
func WriteNames(w io.Writer, team roster.Team, names []string, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, struct {
			Team    string   `json:"team"`
			Players []string `json:"players"`
		}{Team: team.String(), Players: names})
	case FormatText:
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		fmt.Fprintf(w, "\n%s: %d players\n", team.Label(), len(names))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
