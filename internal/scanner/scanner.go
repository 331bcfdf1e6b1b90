// Package scanner enumerates document files under a root directory.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotDirectory is returned when the scan root exists but is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// Scan returns the regular files under root whose extension matches any of
// extensions (case-insensitive). The result is deduplicated and sorted by
// path. A missing root wraps fs.ErrNotExist.
func Scan(root string, extensions []string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scan directory %s: %w", root, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("scan directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan directory %s: %w", root, ErrNotDirectory)
	}

	want := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		want[ext] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && want[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && want[strings.ToLower(filepath.Ext(entry.Name()))] {
				add(filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Info is file metadata for reporting.
type Info struct {
	Path      string
	Name      string
	Size      int64
	Modified  time.Time
	Extension string
}

// FileInfo returns metadata about a single file.
func FileInfo(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return Info{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      stat.Size(),
		Modified:  stat.ModTime(),
		Extension: filepath.Ext(path),
	}, nil
}
