package scraper

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nuhockeyratings/roster-scraper/internal/roster"
)

const (
	PrimarySelector  = "div.sidearm-roster-player-name"
	FallbackSelector = "a.sidearm-roster-player-name"
)

// Match records which selector produced the names
type Match string

const (
	MatchPrimary  Match = "primary"
	MatchFallback Match = "fallback"
	MatchNone     Match = "none"
)

// ParseResult holds the cleaned names in document order
type ParseResult struct {
	Names []string
	Match Match
}

// ParseRoster extracts player names from a roster page.
// The fallback selector is only tried when the primary one matches no elements.
func ParseRoster(r io.Reader) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if sel := doc.Find(PrimarySelector); sel.Length() > 0 {
		return &ParseResult{Names: extractNames(sel), Match: MatchPrimary}, nil
	}

	if sel := doc.Find(FallbackSelector); sel.Length() > 0 {
		return &ParseResult{Names: extractNames(sel), Match: MatchFallback}, nil
	}

	return &ParseResult{Names: []string{}, Match: MatchNone}, nil
}

// ParseRosterBytes is ParseRoster over an in-memory body
func ParseRosterBytes(body []byte) (*ParseResult, error) {
	return ParseRoster(bytes.NewReader(body))
}

func extractNames(sel *goquery.Selection) []string {
	names := make([]string, 0, sel.Length())
	for _, node := range sel.Nodes {
		names = append(names, roster.CleanName(strippedText(node)))
	}
	return names
}

// strippedText concatenates every descendant text node after trimming each one.
// Jersey number and name usually sit in sibling elements, so per-node trimming
// keeps layout whitespace out of the name.
func strippedText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
