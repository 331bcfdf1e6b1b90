package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Text extracts pages from plain-text files. Form feeds separate pages;
// a file without form feeds is a single page.
type Text struct{}

// Pages implements Extractor.
func (Text) Pages(_ context.Context, path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	parts := strings.Split(string(data), "\f")
	pages := make([]Page, len(parts))
	for i, part := range parts {
		pages[i] = Page{Number: i + 1, Text: part}
	}
	return pages, nil
}
