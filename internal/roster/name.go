package roster

import "strings"

// CleanName removes every ASCII digit from text and trims surrounding
// whitespace. Jersey numbers are rendered inside the same element as the
// player name on roster pages.
func CleanName(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(stripped)
}
