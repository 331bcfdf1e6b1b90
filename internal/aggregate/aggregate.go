// Package aggregate accumulates search matches across a run and writes
// the final result artifacts.
package aggregate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artnoricojr/parse-pdfs/internal/search"
	"github.com/artnoricojr/parse-pdfs/internal/terms"
)

// Result is a match tagged with the identity of its source file.
type Result struct {
	FileName      string `json:"file_name"`
	FilePath      string `json:"file_path"`
	PageNumber    int    `json:"page_number"`
	TermName      string `json:"term_name"`
	MatchedText   string `json:"matched_text"`
	ContextBefore string `json:"context_before"`
	ContextAfter  string `json:"context_after"`
	Position      int    `json:"position"`
}

// Aggregator accumulates results across files. Processing is sequential by
// default; the mutex keeps counts consistent if a caller fans out per-file
// work, in which case listing order follows file completion order.
type Aggregator struct {
	mu            sync.Mutex
	runID         string
	contextBefore int
	contextAfter  int
	results       []Result
	matchCounts   map[string]int
	fileCount     int
	totalPages    int
}

// New creates an aggregator for a run with the configured context sizes.
func New(contextBefore, contextAfter int) *Aggregator {
	return &Aggregator{
		runID:         uuid.New().String(),
		contextBefore: contextBefore,
		contextAfter:  contextAfter,
		matchCounts:   make(map[string]int),
	}
}

// RunID returns the identifier stamped into this run's artifacts.
func (a *Aggregator) RunID() string {
	return a.runID
}

// AddResults appends a file's matches in order. The files-with-matches
// counter advances once per non-empty call; pageCount adds to the running
// page total when positive.
func (a *Aggregator) AddResults(filePath string, matches []search.Match, pageCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(matches) > 0 {
		a.fileCount++
	}
	if pageCount > 0 {
		a.totalPages += pageCount
	}

	fileName := filepath.Base(filePath)
	for _, m := range matches {
		a.results = append(a.results, Result{
			FileName:      fileName,
			FilePath:      filePath,
			PageNumber:    m.PageNumber,
			TermName:      m.TermName,
			MatchedText:   m.MatchedText,
			ContextBefore: m.ContextBefore,
			ContextAfter:  m.ContextAfter,
			Position:      m.Position,
		})
		a.matchCounts[m.TermName]++
	}
}

// TotalMatches returns the count of all results added so far.
func (a *Aggregator) TotalMatches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// FilesWithMatches returns the number of files that produced at least
// one match.
func (a *Aggregator) FilesWithMatches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fileCount
}

// PagesProcessed returns the running page total.
func (a *Aggregator) PagesProcessed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalPages
}

// MatchesByTerm returns a snapshot of per-term match counts.
func (a *Aggregator) MatchesByTerm() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]int, len(a.matchCounts))
	for name, count := range a.matchCounts {
		out[name] = count
	}
	return out
}

// ResultsByFile groups the current results by file name. Pure read.
func (a *Aggregator) ResultsByFile() map[string][]Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string][]Result)
	for _, r := range a.results {
		out[r.FileName] = append(out[r.FileName], r)
	}
	return out
}

// ResultsByTerm groups the current results by term name. Pure read.
func (a *Aggregator) ResultsByTerm() map[string][]Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string][]Result)
	for _, r := range a.results {
		out[r.TermName] = append(out[r.TermName], r)
	}
	return out
}

// Metadata describes a run's result listing.
type Metadata struct {
	RunID            string `json:"run_id"`
	TotalMatches     int    `json:"total_matches"`
	FilesWithMatches int    `json:"files_with_matches"`
	ContextBefore    int    `json:"context_before"`
	ContextAfter     int    `json:"context_after"`
	GeneratedAt      string `json:"generated_at"`
}

// resultsDocument is the serialized shape of SaveResults.
type resultsDocument struct {
	Metadata Metadata `json:"metadata"`
	Matches  []Result `json:"matches"`
}

// SaveResults writes the full ordered result listing plus metadata as JSON.
// The listing is never reordered or deduplicated.
func (a *Aggregator) SaveResults(path string) error {
	a.mu.Lock()
	doc := resultsDocument{
		Metadata: Metadata{
			RunID:            a.runID,
			TotalMatches:     len(a.results),
			FilesWithMatches: a.fileCount,
			ContextBefore:    a.contextBefore,
			ContextAfter:     a.contextAfter,
			GeneratedAt:      time.Now().Format(time.RFC3339),
		},
		Matches: a.results,
	}
	if doc.Matches == nil {
		doc.Matches = []Result{}
	}
	a.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", path, err)
	}
	return nil
}

// jobSummary is the serialized shape of SaveSummary.
type jobSummary struct {
	JobSummary struct {
		RunID            string  `json:"run_id"`
		StartTime        string  `json:"start_time"`
		EndTime          string  `json:"end_time"`
		ElapsedSeconds   float64 `json:"elapsed_time_seconds"`
		ElapsedFormatted string  `json:"elapsed_time_formatted"`
		FilesScanned     int     `json:"files_scanned"`
		PagesProcessed   int     `json:"pages_processed"`
		FilesWithMatches int     `json:"files_with_matches"`
		TotalMatches     int     `json:"total_matches"`
	} `json:"job_summary"`
	SearchParameters struct {
		TermCount     int      `json:"term_count"`
		Terms         []string `json:"terms"`
		ContextBefore int      `json:"context_before"`
		ContextAfter  int      `json:"context_after"`
	} `json:"search_parameters"`
	MatchCountsByTerm map[string]int `json:"match_counts_by_term"`
}

// FormatElapsed renders elapsed seconds as minutes plus fractional seconds,
// e.g. "1m 23.45s".
func FormatElapsed(seconds float64) string {
	minutes := int(seconds) / 60
	rest := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.2fs", minutes, rest)
}

// SaveSummary writes a point-in-time run summary as JSON.
func (a *Aggregator) SaveSummary(path string, start, end time.Time, elapsed float64, filesScanned int, set *terms.Set) error {
	a.mu.Lock()
	var doc jobSummary
	doc.JobSummary.RunID = a.runID
	doc.JobSummary.StartTime = start.Format(time.RFC3339)
	doc.JobSummary.EndTime = end.Format(time.RFC3339)
	doc.JobSummary.ElapsedSeconds = elapsed
	doc.JobSummary.ElapsedFormatted = FormatElapsed(elapsed)
	doc.JobSummary.FilesScanned = filesScanned
	doc.JobSummary.PagesProcessed = a.totalPages
	doc.JobSummary.FilesWithMatches = a.fileCount
	doc.JobSummary.TotalMatches = len(a.results)

	doc.SearchParameters.TermCount = set.Len()
	doc.SearchParameters.Terms = set.Names()
	doc.SearchParameters.ContextBefore = a.contextBefore
	doc.SearchParameters.ContextAfter = a.contextAfter

	doc.MatchCountsByTerm = make(map[string]int, len(a.matchCounts))
	for name, count := range a.matchCounts {
		doc.MatchCountsByTerm[name] = count
	}
	a.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary to %s: %w", path, err)
	}
	return nil
}

// csvColumns is the fixed column order of ExportCSV.
var csvColumns = []string{
	"file_name",
	"file_path",
	"page_number",
	"term_name",
	"matched_text",
	"context_before",
	"context_after",
	"position",
}

// ExportCSV writes the flat result listing as CSV. With zero results it is
// a strict no-op: no file is created.
func (a *Aggregator) ExportCSV(path string) error {
	a.mu.Lock()
	results := make([]Result, len(a.results))
	copy(results, a.results)
	a.mu.Unlock()

	if len(results) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.FileName,
			r.FilePath,
			strconv.Itoa(r.PageNumber),
			r.TermName,
			r.MatchedText,
			r.ContextBefore,
			r.ContextAfter,
			strconv.Itoa(r.Position),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
