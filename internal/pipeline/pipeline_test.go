package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artnoricojr/parse-pdfs/internal/aggregate"
	"github.com/artnoricojr/parse-pdfs/internal/extract"
	"github.com/artnoricojr/parse-pdfs/internal/journal"
	"github.com/artnoricojr/parse-pdfs/internal/search"
	"github.com/artnoricojr/parse-pdfs/internal/terms"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRunner(t *testing.T) (*Runner, *aggregate.Aggregator, *journal.Journal) {
	t.Helper()

	set := terms.NewSet()
	set.Add("Invoice", `INV-\d+`)

	j, err := journal.New(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}

	agg := aggregate.New(4, 4)
	registry := extract.NewRegistry()
	registry.Register(".txt", extract.Text{})

	return &Runner{
		Searcher:   search.NewSearcher(set, 4, 4, discard()),
		Extractors: registry,
		Aggregator: agg,
		Journal:    j,
		Logger:     discard(),
	}, agg, j
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestRunner_Run(t *testing.T) {
	runner, agg, _ := newRunner(t)
	dir := t.TempDir()

	files := []string{
		writeFile(t, dir, "a.txt", "Ref INV-1001 due\fsecond page INV-2002"),
		writeFile(t, dir, "b.txt", "nothing relevant"),
	}

	if err := runner.Run(context.Background(), files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := agg.TotalMatches(); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
	if got := agg.FilesWithMatches(); got != 1 {
		t.Errorf("expected 1 file with matches, got %d", got)
	}
	if got := agg.PagesProcessed(); got != 3 {
		t.Errorf("expected 3 pages processed, got %d", got)
	}
}

func TestRunner_PerFileErrorsContinue(t *testing.T) {
	runner, agg, j := newRunner(t)
	dir := t.TempDir()

	missing := filepath.Join(dir, "gone.txt")
	unsupported := writeFile(t, dir, "weird.docx", "INV-1 in unsupported file")
	good := writeFile(t, dir, "good.txt", "INV-42 found")

	files := []string{missing, unsupported, good}

	if err := runner.Run(context.Background(), files); err != nil {
		t.Fatalf("expected per-file errors to be absorbed, got %v", err)
	}

	// The good file was still processed.
	if got := agg.TotalMatches(); got != 1 {
		t.Errorf("expected 1 match from the good file, got %d", got)
	}

	// Both failures were journaled.
	data, err := os.ReadFile(j.Path())
	if err != nil {
		t.Fatalf("failed to read journal: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "gone.txt") {
		t.Error("expected journal entry for the missing file")
	}
	if !strings.Contains(content, "no extractor registered for .docx") {
		t.Error("expected journal entry for the unsupported extension")
	}
}

func TestRunner_InterruptStopsBeforeNextFile(t *testing.T) {
	runner, agg, _ := newRunner(t)
	dir := t.TempDir()

	files := []string{
		writeFile(t, dir, "a.txt", "INV-1"),
		writeFile(t, dir, "b.txt", "INV-2"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, files)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// Interrupted before the first file was opened; nothing aggregated.
	if got := agg.TotalMatches(); got != 0 {
		t.Errorf("expected 0 matches after immediate interrupt, got %d", got)
	}
}
