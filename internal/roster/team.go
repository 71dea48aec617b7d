package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTeam is returned for team tokens other than mens or womens
var ErrUnknownTeam = errors.New("unknown team")

// Team identifies which roster is scraped
type Team string

const (
	Mens   Team = "mens"
	Womens Team = "womens"
)

var teamPathSegments = map[Team]string{
	Mens:   "mens-ice-hockey",
	Womens: "womens-ice-hockey",
}

var teamLabels = map[Team]string{
	Mens:   "Men's Ice Hockey",
	Womens: "Women's Ice Hockey",
}

// Teams returns every known team in a stable order
func Teams() []Team {
	return []Team{Mens, Womens}
}

// ParseTeam normalizes a team token. The normalized value is always returned
// so callers can log it; err is ErrUnknownTeam when the token is not known.
func ParseTeam(s string) (Team, error) {
	t := Team(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return t, fmt.Errorf("%w: %q (expected %s)", ErrUnknownTeam, s, expectedTeams())
	}
	return t, nil
}

func expectedTeams() string {
	quoted := make([]string, 0, len(Teams()))
	for _, t := range Teams() {
		quoted = append(quoted, "'"+string(t)+"'")
	}
	return strings.Join(quoted, " or ")
}

// Valid reports whether t is one of the known teams
func (t Team) Valid() bool {
	_, ok := teamPathSegments[t]
	return ok
}

// PathSegment returns the sport segment used in roster URLs
func (t Team) PathSegment() (string, error) {
	seg, ok := teamPathSegments[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, string(t))
	}
	return seg, nil
}

// FileName returns the CSV file name for the team, e.g. "mens.csv"
func (t Team) FileName() string {
	return strings.ToLower(string(t)) + ".csv"
}

// Label returns a display name
func (t Team) Label() string {
	if label, ok := teamLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t Team) String() string {
	return string(t)
}
