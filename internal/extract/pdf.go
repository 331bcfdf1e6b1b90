package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDF extracts page text from PDF files. Page enumeration goes through
// pdfcpu; page content comes from pdftotext (poppler-utils), fanned out
// across a bounded number of workers and reassembled in page order.
type PDF struct {
	// Binary overrides the pdftotext executable name (default "pdftotext").
	Binary string

	// Workers bounds concurrent pdftotext invocations (default NumCPU).
	Workers int

	Logger *slog.Logger
}

// DocInfo holds a PDF's page count and info dictionary fields.
// Absent fields are empty strings.
type DocInfo struct {
	PageCount    int
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
}

// Metadata reads the page count and document info from a PDF without
// extracting any text.
func (p *PDF) Metadata(path string) (*DocInfo, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages in %s: %w", path, err)
	}

	return &DocInfo{
		PageCount:    ctx.PageCount,
		Title:        ctx.Title,
		Author:       ctx.Author,
		Subject:      ctx.Subject,
		Creator:      ctx.Creator,
		Producer:     ctx.Producer,
		CreationDate: ctx.XRefTable.CreationDate,
		ModDate:      ctx.ModDate,
	}, nil
}

// Pages implements Extractor. Any page failure fails the whole file.
func (p *PDF) Pages(ctx context.Context, path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("extracting PDF text", "file", path, "pages", pageCount)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type result struct {
		pageNum int
		text    string
		err     error
	}

	results := make(chan result, pageCount)
	sem := make(chan struct{}, workers)

	for page := 1; page <= pageCount; page++ {
		sem <- struct{}{} // acquire
		go func(pageNum int) {
			defer func() { <-sem }() // release

			text, err := p.extractPage(ctx, path, pageNum)
			results <- result{pageNum: pageNum, text: text, err: err}
		}(page)
	}

	texts := make([]string, pageCount)
	for i := 0; i < pageCount; i++ {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", r.pageNum, r.err)
		}
		texts[r.pageNum-1] = r.text
	}

	pages := make([]Page, pageCount)
	for i, text := range texts {
		pages[i] = Page{Number: i + 1, Text: text}
	}
	return pages, nil
}

// extractPage runs pdftotext for a single page, retrying once on failure.
func (p *PDF) extractPage(ctx context.Context, path string, pageNum int) (string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftotext"
	}

	var out bytes.Buffer
	err := retry.Do(
		func() error {
			out.Reset()
			var stderr bytes.Buffer
			cmd := exec.CommandContext(ctx, bin,
				"-f", strconv.Itoa(pageNum),
				"-l", strconv.Itoa(pageNum),
				"-enc", "UTF-8",
				path,
				"-", // write to stdout
			)
			cmd.Stdout = &out
			cmd.Stderr = &stderr

			if err := cmd.Run(); err != nil {
				if stderr.Len() > 0 {
					return fmt.Errorf("%s: %s", err, bytes.TrimSpace(stderr.Bytes()))
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	// pdftotext terminates each page with a form feed.
	return string(bytes.TrimSuffix(out.Bytes(), []byte("\f"))), nil
}
