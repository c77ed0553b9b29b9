package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UniqueRoots makes scan roots absolute, drops duplicates and roots nested
// inside another root, and sorts the result.
func UniqueRoots(paths []string) ([]string, error) {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		set[filepath.Clean(abs)] = true
	}

	all := SortedStringKeys(set)
	out := make([]string, 0, len(all))
	for _, root := range all {
		nested := false
		for _, kept := range out {
			if HasPathPrefix(root, kept) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, root)
		}
	}
	return out, nil
}

// HasPathPrefix returns true when path equals prefix or is contained within prefix.
func HasPathPrefix(path, prefix string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	prefix = filepath.ToSlash(filepath.Clean(prefix))
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}
