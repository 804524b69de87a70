// Package indexer implements the File Indexer (C5): it walks a tree's
// source folder, applies the two-glob ignore model, discards non-text
// files, and populates the index store's files table and trigram
// index, accumulating the per-folder file/subfolder listings C8 needs.
// Grounded directly on original_source/dxr/build.py's
// index_files/_unignored_folders/build_folder: a top-down walk that
// reads each directory's immediate entries, filters both files and
// subfolders against the tree's ignore rules, then recurses into what
// remains.
package indexer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/direrr"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/types"
)

// Folder is one directory's accumulated listing (spec.md §4.6): the
// sorted file and subfolder names C8 renders into a folder index page.
type Folder struct {
	Path    string // relative to the tree's source folder, "" for the root
	Files   []string
	Folders []string
}

// Result is everything C5 produces for one tree.
type Result struct {
	Folders []Folder
}

// Index walks tree.SourceFolder and populates w with every non-ignored
// text file found, returning the accumulated per-folder listings C8
// needs to emit folder index pages.
func Index(tree *config.Tree, w *store.Writer) (*Result, error) {
	rules := config.NewIgnoreRules(tree.IgnorePatterns, tree.IgnorePaths)
	res := &Result{}

	if err := walkDir(tree.SourceFolder, "", rules, w, res); err != nil {
		return nil, err
	}
	return res, nil
}

// walkDir indexes one directory (relPath relative to the tree root,
// "" for the root itself) and recurses into its unignored subfolders.
func walkDir(sourceFolder, relPath string, rules *config.IgnoreRules, w *store.Writer, res *Result) error {
	absPath := filepath.Join(sourceFolder, relPath)
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return direrr.IndexingIO("readdir", absPath, err)
	}

	var indexedFiles []string
	var subfolders []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if ignoresDir(rules, name, filepath.Join(relPath, name)) {
				continue
			}
			subfolders = append(subfolders, name)
			continue
		}

		if rules.IgnoresName(name) {
			continue
		}
		rel := toSlash(filepath.Join(relPath, name))
		if rules.IgnoresPath(rel, false) {
			continue
		}

		filePath := filepath.Join(absPath, name)
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return direrr.IndexingIO("read", filePath, readErr)
		}
		if !IsText(filePath, data) {
			continue
		}

		w.InsertFile(types.FileRecord{
			Path:  rel,
			Icon:  iconFor(rel),
			Bytes: data,
		})
		indexedFiles = append(indexedFiles, name)
	}

	sort.Strings(indexedFiles)
	sort.Strings(subfolders)
	res.Folders = append(res.Folders, Folder{
		Path:    toSlash(relPath),
		Files:   indexedFiles,
		Folders: subfolders,
	})

	for _, name := range subfolders {
		if err := walkDir(sourceFolder, filepath.Join(relPath, name), rules, w, res); err != nil {
			return err
		}
	}
	return nil
}

func ignoresDir(rules *config.IgnoreRules, name, relPath string) bool {
	if rules.IgnoresName(name) {
		return true
	}
	return rules.IgnoresPath(toSlash(relPath), true)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, string(filepath.Separator), "/")
}
