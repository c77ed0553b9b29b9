package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func NewGrammarLoader(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if registry == nil {
		var err error
		registry, err = BuildLanguageRegistry(nil)
		if err != nil {
			return nil, err
		}
	}

	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry:  cloneLanguageRegistry(registry),
	}

	for _, langID := range sortedRegistryIDs(gl.registry) {
		spec := gl.registry[langID]
		if !spec.Enabled {
			continue
		}
		switch langID {
		case LangJavaScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case LangTypeScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case LangTSX:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		default:
			return nil, fmt.Errorf("language %q is enabled but no grammar is bundled for it", langID)
		}
	}

	return gl, nil
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

func (gl *GrammarLoader) LanguageRegistry() map[string]LanguageSpec {
	return cloneLanguageRegistry(gl.registry)
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	return SupportedExtensions(gl.registry)
}
