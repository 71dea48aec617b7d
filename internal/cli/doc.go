// Package cli implements the command-line interface for roster-scraper.
//
// The cli package provides the Cobra-based CLI that scrapes one team's roster
// pages across the requested seasons, writes the unique player names to
// <team>.csv, and reports a per-season summary as text or JSON. The list
// subcommand prints a previously written roster file.
package cli
