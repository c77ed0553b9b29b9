package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Language identifiers understood by the grammar loader.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

type LanguageSpec struct {
	Name       string
	Extensions []string
	Enabled    bool
	// TypeScript marks grammars that accept type-level declarations.
	TypeScript bool
}

type LanguageOverride struct {
	Enabled    *bool
	Extensions []string
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangJavaScript: {
			Name:       LangJavaScript,
			Extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
			Enabled:    true,
		},
		LangTypeScript: {
			Name:       LangTypeScript,
			Extensions: []string{".ts", ".mts", ".cts"},
			Enabled:    true,
			TypeScript: true,
		},
		LangTSX: {
			Name:       LangTSX,
			Extensions: []string{".tsx"},
			Enabled:    true,
			TypeScript: true,
		},
	}
}

func BuildLanguageRegistry(overrides map[string]LanguageOverride) (map[string]LanguageSpec, error) {
	registry := cloneLanguageRegistry(DefaultLanguageRegistry())
	if overrides == nil {
		return registry, nil
	}

	for language, override := range overrides {
		spec, ok := registry[language]
		if !ok {
			return nil, fmt.Errorf("unknown language override %q", language)
		}
		if override.Enabled != nil {
			spec.Enabled = *override.Enabled
		}
		if len(override.Extensions) > 0 {
			spec.Extensions = normalizeExtensions(override.Extensions)
		}
		registry[language] = spec
	}

	if err := validateLanguageRegistry(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// LanguageForPath returns the enabled language owning the path's extension.
func LanguageForPath(registry map[string]LanguageSpec, path string) (LanguageSpec, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return LanguageSpec{}, false
	}
	for _, id := range sortedRegistryIDs(registry) {
		spec := registry[id]
		if !spec.Enabled {
			continue
		}
		for _, candidate := range spec.Extensions {
			if candidate == ext {
				return spec, true
			}
		}
	}
	return LanguageSpec{}, false
}

// SupportedExtensions lists the extensions of every enabled language, sorted.
func SupportedExtensions(registry map[string]LanguageSpec) []string {
	set := make(map[string]bool)
	for _, spec := range registry {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			set[ext] = true
		}
	}
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for id, spec := range in {
		copySpec := spec
		copySpec.Extensions = append([]string(nil), spec.Extensions...)
		out[id] = copySpec
	}
	return out
}

func validateLanguageRegistry(registry map[string]LanguageSpec) error {
	extOwner := make(map[string]string)
	enabled := 0

	for _, id := range sortedRegistryIDs(registry) {
		spec := registry[id]
		if !spec.Enabled {
			continue
		}
		enabled++
		if len(spec.Extensions) == 0 {
			return fmt.Errorf("language %q is enabled but has no extensions", id)
		}
		for _, ext := range normalizeExtensions(spec.Extensions) {
			if existing, ok := extOwner[ext]; ok && existing != id {
				return fmt.Errorf("duplicate extension %q owned by %q and %q", ext, existing, id)
			}
			extOwner[ext] = id
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one language must be enabled")
	}
	return nil
}

func normalizeExtensions(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, value := range values {
		raw := strings.TrimSpace(strings.ToLower(value))
		if raw == "" {
			continue
		}
		if !strings.HasPrefix(raw, ".") {
			raw = "." + raw
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	sort.Strings(out)
	return out
}

func sortedRegistryIDs(registry map[string]LanguageSpec) []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
