// Package scraper provides HTTP fetching and HTML parsing for college hockey roster pages.
//
// The scraper package builds the roster URL for a team and season, fetches the page,
// transcodes it to UTF-8, and extracts player names. Two markup variants are handled:
// the div-based roster layout and, when that yields nothing, the anchor-based layout
// used by older seasons.
package scraper
