// Package terms loads named regex patterns from JSON, YAML, or CSV sources.
package terms

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Set is an ordered mapping from term name to regex pattern.
// Names are unique; insertion order is preserved for reporting.
type Set struct {
	names    []string
	patterns map[string]string
}

// NewSet creates an empty term set.
func NewSet() *Set {
	return &Set{patterns: make(map[string]string)}
}

// Add inserts a term. Re-adding an existing name updates its pattern
// but keeps the name's original position.
func (s *Set) Add(name, pattern string) {
	if _, ok := s.patterns[name]; !ok {
		s.names = append(s.names, name)
	}
	s.patterns[name] = pattern
}

// Len returns the number of terms in the set.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the term names in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Pattern returns the pattern for a name and whether it exists.
func (s *Set) Pattern(name string) (string, bool) {
	p, ok := s.patterns[name]
	return p, ok
}

// UnsupportedFormatError is returned when a term source has an
// extension the loader does not understand.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported term list format %q: use .json, .yaml, or .csv", e.Ext)
}

// Load reads a term set from a JSON, YAML, or CSV file, dispatching on
// the file extension. A missing file wraps fs.ErrNotExist.
func Load(path string) (*Set, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("term list file %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("term list file %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read term list %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".csv":
		return parseCSV(data, nil)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}

// Validate compiles every pattern in the set and returns one error string
// per invalid pattern, naming the term. It never stops at the first error
// and never mutates the set.
func Validate(set *Set) []string {
	var errs []string
	for _, name := range set.Names() {
		pattern, _ := set.Pattern(name)
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Sprintf("invalid regex for %q: %v", name, err))
		}
	}
	return errs
}
