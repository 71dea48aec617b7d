package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuhockeyratings/roster-scraper/internal/roster"
)

// Header is the single column label written to every roster file
const Header = "name"

// Storage handles persistence of roster files
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the roster file path for a team
func (s *Storage) Path(team roster.Team) string {
	return filepath.Join(s.dataDir, team.FileName())
}

// WriteRoster writes the sorted players to the team's CSV file, replacing any
// existing file. An empty set writes nothing and reports written=false.
func (s *Storage) WriteRoster(team roster.Team, players *roster.PlayerSet) (path string, written bool, err error) {
	if players.Len() == 0 {
		return "", false, nil
	}

	path = s.Path(team)
	f, err := os.Create(path)
	if err != nil {
		return "", false, fmt.Errorf("creating roster file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing roster file: %w", closeErr)
			written = false
		}
	}()

	if err := writeCSV(f, players.Sorted()); err != nil {
		return "", false, fmt.Errorf("writing roster file: %w", err)
	}

	return path, true, nil
}

func writeCSV(w io.Writer, names []string) error {
	cw := csv.NewWriter(w)
	// UseCRLF defaults to false: rows end in a bare \n

	if err := cw.Write([]string{Header}); err != nil {
		return err
	}
	for _, name := range names {
		if name == "" {
			// csv.Writer renders a lone empty field as a blank line
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write([]string{name}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// LoadRoster reads the names stored for a team, skipping the header and blank rows.
// A missing file yields an error wrapping os.ErrNotExist.
func (s *Storage) LoadRoster(team roster.Team) ([]string, error) {
	f, err := os.Open(s.Path(team))
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	names := make([]string, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if i == 0 && name == Header {
			continue
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// Exists reports whether a roster file has been written for team
func (s *Storage) Exists(team roster.Team) bool {
	_, err := os.Stat(s.Path(team))
	return !errors.Is(err, os.ErrNotExist)
}
