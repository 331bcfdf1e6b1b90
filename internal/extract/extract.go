// Package extract turns document files into per-page plain text.
//
// Extraction is a collaborator of the search pipeline: given a file it
// returns 1-based pages of text, or an extraction failure that the caller
// treats as fatal to that file only.
package extract

import (
	"context"
	"path/filepath"
	"strings"
)

// Page is one page of extracted text, numbered from 1 within its file.
type Page struct {
	Number int
	Text   string
}

// Extractor produces a file's pages in ascending page order.
type Extractor interface {
	Pages(ctx context.Context, path string) ([]Page, error)
}

// Registry maps file extensions (lowercased, with leading dot) to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// Register binds an extractor to an extension. The extension is
// normalized to lowercase with a leading dot.
func (r *Registry) Register(ext string, e Extractor) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.byExt[ext] = e
}

// For returns the extractor for a file path's extension.
func (r *Registry) For(path string) (Extractor, bool) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Extensions returns the registered extensions.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	return out
}
