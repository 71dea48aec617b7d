// Package roster provides the core types for collecting hockey roster players.
//
// The roster package defines the Team enumeration (with its URL path segment and
// output file name lookups), the name cleaner that strips jersey numbers from
// scraped text, and PlayerSet, the deduplicating collection of names built up
// across seasons.
package roster
