package config

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreRules applies the two-glob ignore model of spec.md §4.6:
// name-globs match a bare file/folder name; path-globs match the
// "/"+relpath+"/" form, so "**" segments in a path-glob behave the way
// the teacher's own ignore matching (doublestar.Match) does.
type IgnoreRules struct {
	namePatterns []string
	pathPatterns []string
}

// NewIgnoreRules builds an IgnoreRules from a tree's configured
// ignore_patterns (name-globs) and ignore_paths (path-globs).
func NewIgnoreRules(namePatterns, pathPatterns []string) *IgnoreRules {
	return &IgnoreRules{namePatterns: namePatterns, pathPatterns: pathPatterns}
}

// IgnoresName reports whether name (a bare file or folder name) matches
// any configured name-glob.
func (r *IgnoreRules) IgnoresName(name string) bool {
	for _, pattern := range r.namePatterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IgnoresPath reports whether relPath (a path relative to the tree's
// source folder, forward-slash normalized) matches any configured
// path-glob. isDir adds the trailing slash spec.md §4.6 requires for
// folder path-globs.
func (r *IgnoreRules) IgnoresPath(relPath string, isDir bool) bool {
	normalized := "/" + strings.ReplaceAll(relPath, "\\", "/")
	if isDir {
		normalized += "/"
	}
	for _, pattern := range r.pathPatterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
	}
	return false
}
