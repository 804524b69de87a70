// Package config loads the build driver's configuration surface
// (spec.md §6) and applies the two-glob ignore model C5 uses (spec.md
// §4.6). The configuration *file grammar* is an external collaborator
// per spec.md §1; this package gives it a concrete default grammar —
// KDL, the same format the teacher repo uses for its own project
// config — behind a plain Go struct any caller can also populate
// programmatically.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the global, cross-tree configuration surface of spec.md §6.
type Config struct {
	NbJobs             int
	TemplateParameters map[string]string
	Wwwroot            string
	GeneratedDate      string
	DirectoryIndex     string
	Trees              []*Tree

	targetRoot string // root under which tree target/temp/log folders default
}

// Tree is one configured source repository (spec.md glossary: "Tree").
type Tree struct {
	Name           string
	SourceFolder   string
	ObjectFolder   string
	TempFolder     string
	LogFolder      string
	TargetFolder   string
	BuildCommand   string
	IgnorePatterns []string // name-globs
	IgnorePaths    []string // path-globs, leading/trailing "/"
	EnabledPlugins []string
	config         *Config
}

// Config returns the owning global Config so Tree-level code (plugins,
// C8) can reach cross-tree settings like Wwwroot or DirectoryIndex.
func (t *Tree) Config() *Config { return t.config }

// Default returns a Config with the defaults spec.md §6 implies when an
// option is unspecified: nb_jobs defaults to CPU count, directory_index
// defaults to "index.html".
func Default() *Config {
	return &Config{
		NbJobs:         runtime.NumCPU(),
		DirectoryIndex: "index.html",
		GeneratedDate:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Validate checks the cross-field invariants a Configuration error
// (spec.md §7) must catch before a build starts: every tree needs a
// name and a source folder, and tree names must be unique.
func (c *Config) Validate() error {
	if len(c.Trees) == 0 {
		return fmt.Errorf("config: no trees defined")
	}
	seen := make(map[string]bool, len(c.Trees))
	for _, t := range c.Trees {
		if t.Name == "" {
			return fmt.Errorf("config: tree with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("config: duplicate tree name %q", t.Name)
		}
		seen[t.Name] = true
		if t.SourceFolder == "" {
			return fmt.Errorf("config: tree %q has no source_folder", t.Name)
		}
	}
	return nil
}

// TreeByName returns the tree named name, or a Configuration error
// (spec.md §7) if it isn't defined.
func (c *Config) TreeByName(name string) (*Tree, error) {
	for _, t := range c.Trees {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("config: tree %q is not defined in config file", name)
}

// applyDefaults fills in unset folders the way the original
// build_instance/Config layer does: the object folder defaults to the
// source folder; temp, log and target folders default to subdirectories
// of targetRoot (_tmp/<name>, _logs/<name>, <name>).
func (t *Tree) applyDefaults(c *Config, targetRoot string) {
	if t.ObjectFolder == "" {
		t.ObjectFolder = t.SourceFolder
	}
	if t.TempFolder == "" {
		t.TempFolder = filepath.Join(targetRoot, "_tmp", t.Name)
	}
	if t.LogFolder == "" {
		t.LogFolder = filepath.Join(targetRoot, "_logs", t.Name)
	}
	if t.TargetFolder == "" {
		t.TargetFolder = filepath.Join(targetRoot, t.Name)
	}
	t.config = c
}
