// Package render implements the Folder/File Page Emitter (C8): it
// drives a template engine once per decorated file and once per
// indexed folder, feeding it the fixed template variable set spec.md
// §4.8 and §6 fix, and writes pages atomically. Grounded on
// original_source/dxr/build.py's build_file/build_folder and
// linked_pathname, with the "opaque template engine" given a concrete
// html/template default (no example repo in the corpus wires a
// third-party template engine for static-site rendering, so stdlib is
// the only grounded choice here — see DESIGN.md).
package render

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/plugin"
	"github.com/standardbeagle/dxr/internal/types"
)

// Emitter is what C6 calls once per decorated file; C8's own Renderer
// (below) is one implementation, but tests may substitute a fake.
type Emitter interface {
	EmitFile(tree *config.Tree, rec types.FileRecord, lines []string, htmlifiers []plugin.FileHtmlifier) error
}

// FolderListing is one folder's navigable entry (spec.md §4.6's folder
// listing, consumed here rather than produced).
type FolderListing struct {
	Path    string
	Files   []string
	Folders []string
}

// PathComponent is one breadcrumb segment: a server-relative URL and
// the subtree/file name to display for it (linked_pathname).
type PathComponent struct {
	URL  string
	Name string
}

// TemplateEngine is the pluggable "opaque template engine" boundary
// spec.md §1 calls out. RenderFile/RenderFolder get the fixed variable
// set of spec.md §4.8 and return the fully rendered page.
type TemplateEngine interface {
	RenderFile(vars FileVars) (io.Reader, error)
	RenderFolder(vars FolderVars) (io.Reader, error)
}

// CommonVars are the template variables every page gets (spec.md §4.8).
type CommonVars struct {
	Wwwroot       string
	Tree          string
	Trees         []string
	Config        map[string]string
	GeneratedDate string
	PathsAndNames []PathComponent
}

// FileVars is the variable set for a single decorated file page.
type FileVars struct {
	CommonVars
	Path  string
	Lines []string
	Links []types.LinkGroup
}

// FolderVars is the variable set for a folder index page.
type FolderVars struct {
	CommonVars
	Name    string
	Path    string
	Folders []string
	Files   []string
}

// Renderer is the default C8 implementation: html/template rendering
// plus renameio atomic writes.
type Renderer struct {
	Engine TemplateEngine
}

// NewRenderer returns a Renderer using the default html/template engine.
func NewRenderer() *Renderer {
	return &Renderer{Engine: NewDefaultEngine()}
}

// EmitFile renders one file's decorated lines and writes the page to
// <tree.TargetFolder>/<rec.Path>.html, atomically.
func (r *Renderer) EmitFile(tree *config.Tree, rec types.FileRecord, lines []string, htmlifiers []plugin.FileHtmlifier) error {
	vars := FileVars{
		CommonVars: commonVars(tree, rec.Path),
		Path:       rec.Path,
		Lines:      lines,
		Links:      mergeLinks(htmlifiers),
	}
	out, err := r.Engine.RenderFile(vars)
	if err != nil {
		return err
	}
	dst := filepath.Join(tree.TargetFolder, rec.Path+".html")
	return writeAtomic(dst, out)
}

// EmitFolder renders one folder's index page.
func (r *Renderer) EmitFolder(tree *config.Tree, listing FolderListing) error {
	name := path.Base(listing.Path)
	if listing.Path == "" {
		name = tree.Name
	}
	vars := FolderVars{
		CommonVars: commonVars(tree, listing.Path),
		Name:       name,
		Path:       listing.Path,
		Folders:    listing.Folders,
		Files:      listing.Files,
	}
	out, err := r.Engine.RenderFolder(vars)
	if err != nil {
		return err
	}
	directoryIndex := "index.html"
	if tree.Config() != nil && tree.Config().DirectoryIndex != "" {
		directoryIndex = tree.Config().DirectoryIndex
	}
	dst := filepath.Join(tree.TargetFolder, listing.Path, directoryIndex)
	return writeAtomic(dst, out)
}

func commonVars(tree *config.Tree, relPath string) CommonVars {
	cv := CommonVars{
		Tree:          tree.Name,
		PathsAndNames: linkedPathname(relPath, tree.Name),
	}
	if cfg := tree.Config(); cfg != nil {
		cv.Wwwroot = cfg.Wwwroot
		cv.Config = cfg.TemplateParameters
		cv.GeneratedDate = cfg.GeneratedDate
		for _, t := range cfg.Trees {
			cv.Trees = append(cv.Trees, t.Name)
		}
	}
	return cv
}

// linkedPathname builds the breadcrumb component list (linked_pathname):
// a tree root entry, then one entry per path segment.
func linkedPathname(relPath, treeName string) []PathComponent {
	root := PathComponent{URL: "/" + treeName + "/source", Name: treeName}
	if relPath == "" {
		return []PathComponent{root}
	}

	segments := strings.Split(filepath.ToSlash(relPath), "/")
	components := []PathComponent{root}
	for i := range segments {
		url := "/" + strings.Join(append([]string{treeName, "source"}, segments[:i+1]...), "/")
		components = append(components, PathComponent{URL: url, Name: segments[i]})
	}
	return components
}

// mergeLinks combines every plugin's navigation groups, sorted by
// (Importance, Section) the way C8's sidebar expects.
func mergeLinks(htmlifiers []plugin.FileHtmlifier) []types.LinkGroup {
	var groups []types.LinkGroup
	for _, h := range htmlifiers {
		groups = append(groups, h.Links()...)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Importance != groups[j].Importance {
			return groups[i].Importance < groups[j].Importance
		}
		return groups[i].Section < groups[j].Section
	})
	return groups
}

func writeAtomic(dst string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	t, err := renameio.TempFile("", dst)
	if err != nil {
		return err
	}
	defer t.Cleanup()

	if _, err := io.Copy(t, r); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}
