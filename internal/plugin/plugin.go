// Package plugin defines the capability surface language plugins expose
// to the Tag Stream Builder (C1) and Worker Pool (C6), per spec.md §4.1
// (C7). Language-plugin internals — compiler integration, parsing,
// semantic analysis — are out of scope; only this contract is.
package plugin

import (
	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/types"
)

// FileHtmlifier is the per-file capability a plugin returns from
// Htmlifier: the regions, refs, and navigation links for one file.
//
// Contract (spec.md §4.1): no two refs returned by Refs() on the same
// FileHtmlifier may overlap; across plugins, overlapping refs are
// tolerated but filtered by C2. All offsets are byte offsets over the
// file's original bytes.
type FileHtmlifier interface {
	Regions() []types.Region
	Refs() []types.Ref
	Links() []types.LinkGroup
}

// Indexer is the plugin contract (C7): pre/post hooks around the
// external build step, a per-worker load hook, and the per-file
// htmlifier factory.
type Indexer interface {
	// PreProcess mutates env before the external build command runs; it
	// may write auxiliary files into the plugin's temp area. A failing
	// PreProcess is a PluginSetupError (spec.md §4.1, §7).
	PreProcess(tree *config.Tree, env map[string]string) error

	// PostProcess ingests plugin artifacts into the index store after the
	// external build has run.
	PostProcess(tree *config.Tree, w *store.Writer) error

	// Load is invoked once per decoration worker (C6 step 2), before that
	// worker's files are htmlified, so a plugin can warm up any
	// per-worker state from the read-only store handle.
	Load(tree *config.Tree, r *store.Reader) error

	// Htmlifier returns (nil, false) if the plugin does not apply to
	// this file, or a FileHtmlifier otherwise.
	Htmlifier(path string, text []byte) (FileHtmlifier, bool)
}
