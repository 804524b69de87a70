// Package plain is the dependency-free reference plugin: no compiler
// integration, no tree-sitter grammar, just regexp-based keyword regions
// so a build can exercise C1-C8 end to end without
// any language toolchain installed. Grounded on the teacher's plugin
// shape (PreProcess/PostProcess/Load/Htmlifier) with the actual
// region/ref logic written from scratch against spec.md §4.1.
package plain

import (
	"regexp"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/plugin"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/types"
)

var keywordPattern = regexp.MustCompile(`\b(func|package|import|return|if|else|for|range|struct|interface|type|var|const|go|defer|select|case|switch|default|chan|map)\b`)

// Plugin is the Indexer implementation.
type Plugin struct {
	reader *store.Reader
}

// New returns a fresh Plugin.
func New() *Plugin { return &Plugin{} }

// PreProcess is a no-op: plain has no external build step to prepare env for.
func (p *Plugin) PreProcess(tree *config.Tree, env map[string]string) error { return nil }

// PostProcess is a no-op: plain has no build artifacts to ingest.
func (p *Plugin) PostProcess(tree *config.Tree, w *store.Writer) error { return nil }

// Load keeps the reader handle so Htmlifier can run cross-file lookups
// (none are needed today, but the hook mirrors spec.md §4.7 step 2).
func (p *Plugin) Load(tree *config.Tree, r *store.Reader) error {
	p.reader = r
	return nil
}

// Htmlifier always applies: every file gets keyword regions.
func (p *Plugin) Htmlifier(path string, text []byte) (plugin.FileHtmlifier, bool) {
	return &fileHtmlifier{text: text}, true
}

type fileHtmlifier struct {
	text []byte
}

// Regions marks every keyword occurrence with the "k" syntax class,
// matching the teacher's convention of short, CSS-friendly class names.
func (h *fileHtmlifier) Regions() []types.Region {
	matches := keywordPattern.FindAllIndex(h.text, -1)
	regions := make([]types.Region, 0, len(matches))
	for _, m := range matches {
		regions = append(regions, types.Region{
			Interval: types.Interval{Start: m[0], End: m[1]},
			Class:    "k",
		})
	}
	return regions
}

// Refs returns no cross-references: plain has no symbol table to link
// identifiers against.
func (h *fileHtmlifier) Refs() []types.Ref {
	return nil
}

// Links returns no navigation sidebar entries.
func (h *fileHtmlifier) Links() []types.LinkGroup {
	return nil
}
