package terms

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func assertSet(t *testing.T, set *Set, want [][2]string) {
	t.Helper()
	if set.Len() != len(want) {
		t.Fatalf("expected %d terms, got %d (%v)", len(want), set.Len(), set.Names())
	}
	names := set.Names()
	for i, pair := range want {
		if names[i] != pair[0] {
			t.Errorf("expected name %q at position %d, got %q", pair[0], i, names[i])
		}
		if p, ok := set.Pattern(pair[0]); !ok || p != pair[1] {
			t.Errorf("expected pattern %q for %q, got %q", pair[1], pair[0], p)
		}
	}
}

func TestSet_AddPreservesOrder(t *testing.T) {
	set := NewSet()
	set.Add("B", "bar")
	set.Add("A", "foo")
	set.Add("B", "baz") // update, keeps position

	assertSet(t, set, [][2]string{{"B", "baz"}, {"A", "foo"}})
}

func TestLoad_JSONObject(t *testing.T) {
	path := writeTemp(t, "terms.json", `{"A": "foo", "B": "bar"}`)

	set, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
}

func TestLoad_JSONArray(t *testing.T) {
	t.Run("named shapes", func(t *testing.T) {
		path := writeTemp(t, "terms.json",
			`[{"name":"A","pattern":"foo"}, {"term":"B","regex":"bar"}]`)

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})

	t.Run("positional fallback", func(t *testing.T) {
		path := writeTemp(t, "terms.json",
			`[{"label":"A","expr":"foo"}, {"only_one":"x"}, {"n":1,"p":"x"}]`)

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Records with fewer than two fields or non-string values are skipped.
		assertSet(t, set, [][2]string{{"A", "foo"}})
	})

	t.Run("non-object entries skipped", func(t *testing.T) {
		path := writeTemp(t, "terms.json", `[42, {"name":"A","pattern":"foo"}]`)

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}})
	})
}

func TestLoad_JSONInvalidShape(t *testing.T) {
	path := writeTemp(t, "terms.json", `"just a string"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-object, non-array JSON")
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Run("mapping", func(t *testing.T) {
		path := writeTemp(t, "terms.yaml", "A: foo\nB: bar\n")

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})

	t.Run("sequence of records", func(t *testing.T) {
		path := writeTemp(t, "terms.yml",
			"- name: A\n  pattern: foo\n- term: B\n  regex: bar\n")

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})
}

func TestLoad_CSV(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		path := writeTemp(t, "terms.csv", "name,pattern\nA,foo\nB,bar\n")

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})

	t.Run("without header", func(t *testing.T) {
		path := writeTemp(t, "terms.csv", "A,foo\nB,bar\n")

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})

	t.Run("skips short and empty rows", func(t *testing.T) {
		path := writeTemp(t, "terms.csv", "A,foo\nonlyone\n , \nB,bar\n")

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertSet(t, set, [][2]string{{"A", "foo"}, {"B", "bar"}})
	})
}

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
		want bool
	}{
		{"known header names", [][]string{{"name", "pattern"}, {"A", "foo"}}, true},
		{"alternate header names", [][]string{{"Term", "Regex"}, {"A", "foo"}}, true},
		{"plain data rows", [][]string{{"A", "foo"}, {"B", "bar"}}, false},
		{"metachars below plain first row", [][]string{{"Invoice", "label"}, {"A", `INV-\d+`}}, true},
		{"metachars in first row", [][]string{{"A", `\d+`}, {"B", `\w+`}}, false},
		{"single data row", [][]string{{"A", "foo"}}, false},
		{"empty", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectHeader(tc.rows); got != tc.want {
				t.Errorf("DetectHeader(%v) = %v, want %v", tc.rows, got, tc.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeTemp(t, "terms.txt", "A,foo\n")
		_, err := Load(path)

		var ufe *UnsupportedFormatError
		if !errors.As(err, &ufe) {
			t.Fatalf("expected UnsupportedFormatError, got %v", err)
		}
		if ufe.Ext != ".txt" {
			t.Errorf("expected extension .txt, got %q", ufe.Ext)
		}
	})
}

func TestValidate(t *testing.T) {
	set := NewSet()
	set.Add("Good", `INV-\d+`)
	set.Add("Broken", `(unclosed`)
	set.Add("AlsoBroken", `[z-a]`)

	errs := Validate(set)
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "Broken") {
		t.Errorf("expected first error to name Broken, got %q", errs[0])
	}
	if !strings.Contains(errs[1], "AlsoBroken") {
		t.Errorf("expected second error to name AlsoBroken, got %q", errs[1])
	}

	// Validation must not mutate the set.
	if !reflect.DeepEqual(set.Names(), []string{"Good", "Broken", "AlsoBroken"}) {
		t.Errorf("expected set unchanged, got %v", set.Names())
	}
}
