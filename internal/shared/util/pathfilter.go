package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// PathFilter decides which directories to descend into and which files to
// lex. Patterns match against base names.
type PathFilter struct {
	dirs  []glob.Glob
	files []glob.Glob
	exts  map[string]bool
}

func NewPathFilter(excludeDirs, excludeFiles, extensions []string) (*PathFilter, error) {
	dirs, err := compileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	files, err := compileGlobs(excludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized != "" {
			exts[normalized] = true
		}
	}
	return &PathFilter{dirs: dirs, files: files, exts: exts}, nil
}

func (f *PathFilter) SkipDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Accept reports whether a file path has a lexable extension and is not excluded.
func (f *PathFilter) Accept(path string) bool {
	base := filepath.Base(path)
	if len(f.exts) > 0 && !f.exts[strings.ToLower(filepath.Ext(base))] {
		return false
	}
	for _, g := range f.files {
		if g.Match(base) {
			return false
		}
	}
	return true
}

// InExcludedDir reports whether any directory between root and path is excluded.
func (f *PathFilter) InExcludedDir(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".." {
			return false
		}
		for _, g := range f.dirs {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}
