// Package pipeline drives a scan run: one file at a time, per-file errors
// journaled and skipped, interrupts honored between files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/artnoricojr/parse-pdfs/internal/aggregate"
	"github.com/artnoricojr/parse-pdfs/internal/extract"
	"github.com/artnoricojr/parse-pdfs/internal/journal"
	"github.com/artnoricojr/parse-pdfs/internal/search"
)

// Runner processes a list of files through extraction and search, feeding
// the aggregator. Files are processed strictly in the given order.
type Runner struct {
	Searcher   *search.Searcher
	Extractors *extract.Registry
	Aggregator *aggregate.Aggregator
	Journal    *journal.Journal
	Logger     *slog.Logger
}

// Run processes each file in order. A per-file failure is recorded in the
// journal and the run continues; a context cancellation stops before the
// next file is opened and is returned to the caller. Already aggregated
// results are kept either way.
func (r *Runner) Run(ctx context.Context, files []string) error {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("scan interrupted", "remaining_files", remaining(files, path))
			return err
		}

		log.Info("processing file", "file", filepath.Base(path))

		extractor, ok := r.Extractors.For(path)
		if !ok {
			r.Journal.Record(
				fmt.Sprintf("error processing %s", path),
				fmt.Errorf("no extractor registered for %s", filepath.Ext(path)),
			)
			continue
		}

		matches, pageCount, err := r.Searcher.SearchDocument(ctx, path, extractor)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Journal.Record(fmt.Sprintf("error processing %s", path), err)
			continue
		}

		r.Aggregator.AddResults(path, matches, pageCount)
		log.Debug("file processed", "file", filepath.Base(path),
			"pages", pageCount, "matches", len(matches))
	}

	return nil
}

func remaining(files []string, current string) int {
	for i, f := range files {
		if f == current {
			return len(files) - i
		}
	}
	return 0
}
