package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "/foo/bar", prefix: "/foo/bar", expected: true},
		{name: "Nested", path: "/foo/bar/baz", prefix: "/foo/bar", expected: true},
		{name: "Neighbor", path: "/foo/barista", prefix: "/foo/bar", expected: false},
		{name: "Shorter", path: "/foo", prefix: "/foo/bar", expected: false},
		{name: "Root", path: "/foo", prefix: "/", expected: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestUniqueRoots(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "src")
	other := filepath.Join(t.TempDir(), "other")

	got, err := UniqueRoots([]string{nested, base, "", base + "/", other})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 roots, got %v", got)
	}
	for _, root := range got {
		if root == nested {
			t.Fatalf("nested root %s should have been folded into %s", nested, base)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	got := SortedStringKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := WriteFileWithDirs(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestPathFilter(t *testing.T) {
	f, err := NewPathFilter([]string{"node_modules", ".*"}, []string{"*.min.js"}, []string{".js", ".TS"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path   string
		accept bool
	}{
		{"src/app.js", true},
		{"src/app.ts", true},
		{"src/APP.JS", true},
		{"src/app.min.js", false},
		{"src/app.py", false},
		{"README", false},
	}
	for _, tc := range cases {
		if got := f.Accept(tc.path); got != tc.accept {
			t.Errorf("Accept(%q) = %v, want %v", tc.path, got, tc.accept)
		}
	}

	if !f.SkipDir("/repo/node_modules") || !f.SkipDir("/repo/.git") {
		t.Error("expected excluded directories to be skipped")
	}
	if f.SkipDir("/repo/src") {
		t.Error("expected src to be walked")
	}

	if !f.InExcludedDir("/repo", "/repo/node_modules/pkg/index.js") {
		t.Error("expected file under node_modules to be excluded")
	}
	if f.InExcludedDir("/repo", "/repo/src/index.js") {
		t.Error("expected file under src to be kept")
	}

	if _, err := NewPathFilter([]string{"["}, nil, nil); err == nil {
		t.Error("expected invalid glob to fail")
	}
}
