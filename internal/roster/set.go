package roster

import "sort"

// PlayerSet is an unordered collection of unique player names.
// Names are compared by exact string equality.
type PlayerSet struct {
	names map[string]struct{}
}

// NewPlayerSet creates an empty set
func NewPlayerSet() *PlayerSet {
	return &PlayerSet{
		names: make(map[string]struct{}),
	}
}

// Add inserts name and reports whether it was not already present
func (s *PlayerSet) Add(name string) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// AddAll inserts every name and returns how many were new
func (s *PlayerSet) AddAll(names []string) int {
	added := 0
	for _, name := range names {
		if s.Add(name) {
			added++
		}
	}
	return added
}

// Contains reports whether name is in the set
func (s *PlayerSet) Contains(name string) bool {
	_, exists := s.names[name]
	return exists
}

// Len returns the number of unique names
func (s *PlayerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Sorted returns the names in ascending byte order
func (s *PlayerSet) Sorted() []string {
	if s == nil {
		return []string{}
	}
	sorted := make([]string, 0, len(s.names))
	for name := range s.names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted
}
