package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"b.pdf",
		"a.PDF",
		"notes.txt",
		"ignore.png",
		filepath.Join("sub", "c.pdf"),
		filepath.Join("sub", "deep", "d.pdf"),
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	return root
}

func TestScan(t *testing.T) {
	root := mkTree(t)

	t.Run("non-recursive", func(t *testing.T) {
		files, err := Scan(root, []string{".pdf"}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			filepath.Join(root, "a.PDF"),
			filepath.Join(root, "b.pdf"),
		}
		if !reflect.DeepEqual(files, want) {
			t.Errorf("expected %v, got %v", want, files)
		}
	})

	t.Run("recursive", func(t *testing.T) {
		files, err := Scan(root, []string{".pdf"}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 4 {
			t.Fatalf("expected 4 files, got %d: %v", len(files), files)
		}
		if !sortedStrings(files) {
			t.Errorf("expected sorted paths, got %v", files)
		}
	})

	t.Run("multiple extensions without dots", func(t *testing.T) {
		files, err := Scan(root, []string{"pdf", "TXT"}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 3 {
			t.Errorf("expected 3 files, got %d: %v", len(files), files)
		}
	})

	t.Run("duplicate extensions are deduplicated", func(t *testing.T) {
		files, err := Scan(root, []string{".pdf", "pdf", ".PDF"}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("expected 2 files, got %d: %v", len(files), files)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Scan(filepath.Join(root, "nope"), []string{".pdf"}, false)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		_, err := Scan(filepath.Join(root, "b.pdf"), []string{".pdf"}, false)
		if !errors.Is(err, ErrNotDirectory) {
			t.Errorf("expected ErrNotDirectory, got %v", err)
		}
	})
}

func TestFileInfo(t *testing.T) {
	root := mkTree(t)
	path := filepath.Join(root, "b.pdf")

	info, err := FileInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "b.pdf" {
		t.Errorf("expected name b.pdf, got %q", info.Name)
	}
	if info.Extension != ".pdf" {
		t.Errorf("expected extension .pdf, got %q", info.Extension)
	}
	if info.Size != 1 {
		t.Errorf("expected size 1, got %d", info.Size)
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
