// Package search compiles a term set and scans page text for matches.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"github.com/artnoricojr/parse-pdfs/internal/extract"
	"github.com/artnoricojr/parse-pdfs/internal/terms"
)

// Match is one located occurrence of a term's pattern within a page.
// Position and context windows count runes, clamped to the page text.
type Match struct {
	TermName      string
	MatchedText   string
	PageNumber    int
	ContextBefore string
	ContextAfter  string
	Position      int
}

// compiledTerm pairs a term name with its compiled pattern.
type compiledTerm struct {
	name string
	re   *regexp.Regexp
}

// Searcher holds a term set compiled once for a run. Patterns are compiled
// with case-insensitive and multiline semantics; a pattern that fails to
// compile is logged and excluded from matching rather than failing the run.
type Searcher struct {
	compiled      []compiledTerm
	skipped       map[string]string
	contextBefore int
	contextAfter  int
	logger        *slog.Logger
}

// NewSearcher compiles every pattern in the set. Terms whose patterns do
// not compile are recorded in SkippedTerms and logged as warnings.
func NewSearcher(set *terms.Set, contextBefore, contextAfter int, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Searcher{
		skipped:       make(map[string]string),
		contextBefore: contextBefore,
		contextAfter:  contextAfter,
		logger:        logger,
	}

	for _, name := range set.Names() {
		pattern, _ := set.Pattern(name)
		re, err := regexp.Compile("(?im)" + pattern)
		if err != nil {
			s.skipped[name] = err.Error()
			logger.Warn("skipping term with invalid regex", "term", name, "error", err)
			continue
		}
		s.compiled = append(s.compiled, compiledTerm{name: name, re: re})
	}

	return s
}

// SkippedTerms returns term name -> compile error for patterns that
// failed to compile.
func (s *Searcher) SkippedTerms() map[string]string {
	out := make(map[string]string, len(s.skipped))
	for name, msg := range s.skipped {
		out[name] = msg
	}
	return out
}

// SearchPage scans one page of text. Terms are scanned in set order; within
// a term, matches appear in left-to-right scan order. The result is grouped
// by term, never re-sorted by position.
func (s *Searcher) SearchPage(text string, pageNumber int) []Match {
	var matches []Match

	for _, ct := range s.compiled {
		for _, loc := range ct.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]

			matches = append(matches, Match{
				TermName:      ct.name,
				MatchedText:   text[start:end],
				PageNumber:    pageNumber,
				ContextBefore: lastRunes(text[:start], s.contextBefore),
				ContextAfter:  firstRunes(text[end:], s.contextAfter),
				Position:      utf8.RuneCountInString(text[:start]),
			})
		}
	}

	return matches
}

// SearchDocument extracts a file's pages and scans each in ascending page
// order, concatenating the per-page match sequences. An extraction failure
// is fatal to the file and names it in the returned error.
func (s *Searcher) SearchDocument(ctx context.Context, path string, extractor extract.Extractor) ([]Match, int, error) {
	pages, err := extractor.Pages(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}

	var matches []Match
	for _, page := range pages {
		matches = append(matches, s.SearchPage(page.Text, page.Number)...)
	}

	return matches, len(pages), nil
}

// lastRunes returns up to n trailing runes of s.
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := len(s); i > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		count++
		if count == n {
			return s[i:]
		}
	}
	return s
}

// firstRunes returns up to n leading runes of s.
func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
		if count == n {
			return s[:i]
		}
	}
	return s
}
