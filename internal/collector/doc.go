// Package collector drives a scrape run across seasons.
//
// A Collector fetches and parses each season's roster in order, merges the names
// into a single PlayerSet, and records a per-season result. A failed season is
// logged and skipped; it never stops the remaining seasons.
package collector
