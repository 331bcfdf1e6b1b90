package terms

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// HeaderDetector decides whether the first row of a CSV term source is a
// header rather than data. It receives every parsed row.
type HeaderDetector func(rows [][]string) bool

// headerNames are the column names recognized as a header row, lowercased.
var headerNames = map[string]bool{
	"name":    true,
	"term":    true,
	"pattern": true,
	"regex":   true,
}

// regexMetachars are characters that rarely appear in a header label but
// routinely appear in a regex pattern.
const regexMetachars = `\^$.|?*+()[]{}`

// DetectHeader is the default HeaderDetector. The first row is a header when:
//  1. its first two cells, trimmed and lowercased, are both recognized
//     header names (name/term and pattern/regex), or
//  2. its second cell contains no regex metacharacter while some later
//     row's second cell does.
//
// Otherwise the first row is data. A single-row file is never treated as
// header-only unless rule 1 applies.
func DetectHeader(rows [][]string) bool {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return false
	}

	first := strings.ToLower(strings.TrimSpace(rows[0][0]))
	second := strings.ToLower(strings.TrimSpace(rows[0][1]))
	if headerNames[first] && headerNames[second] {
		return true
	}

	if strings.ContainsAny(rows[0][1], regexMetachars) {
		return false
	}
	for _, row := range rows[1:] {
		if len(row) >= 2 && strings.ContainsAny(row[1], regexMetachars) {
			return true
		}
	}
	return false
}

// parseCSV loads terms from rows of (name, pattern) columns. A nil detect
// falls back to DetectHeader. Rows with fewer than two columns, or with an
// empty trimmed name or pattern, are skipped.
func parseCSV(data []byte, detect HeaderDetector) (*Set, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse term list CSV: %w", err)
	}

	if detect == nil {
		detect = DetectHeader
	}
	if detect(rows) {
		rows = rows[1:]
	}

	set := NewSet()
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		pattern := strings.TrimSpace(row[1])
		if name == "" || pattern == "" {
			continue
		}
		set.Add(name, pattern)
	}
	return set, nil
}
