package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// Load reads a KDL config file at path and returns the parsed Config,
// with every tree's derived folders filled in relative to the config
// file's own directory. A missing file, or a malformed document, is a
// Configuration error (spec.md §7) — surfaced immediately, never
// papered over with defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg, err := parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	root := filepath.Dir(path)
	targetRoot := cfg.targetRootOrDefault(root)
	for _, t := range cfg.Trees {
		if t.SourceFolder != "" && !filepath.IsAbs(t.SourceFolder) {
			t.SourceFolder = filepath.Join(root, t.SourceFolder)
		}
		t.applyDefaults(cfg, targetRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// targetRootOrDefault resolves where generated trees are rooted when the
// config doesn't say: "<config dir>/target", following the original
// config.target_folder convention.
func (c *Config) targetRootOrDefault(configDir string) string {
	if c.targetRoot != "" {
		return c.targetRoot
	}
	return filepath.Join(configDir, "target")
}

func parse(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "nb_jobs":
			if v, ok := firstIntArg(n); ok {
				cfg.NbJobs = v
			}
		case "wwwroot":
			if s, ok := firstStringArg(n); ok {
				cfg.Wwwroot = s
			}
		case "directory_index":
			if s, ok := firstStringArg(n); ok {
				cfg.DirectoryIndex = s
			}
		case "generated_date":
			if s, ok := firstStringArg(n); ok {
				cfg.GeneratedDate = s
			}
		case "target_folder":
			if s, ok := firstStringArg(n); ok {
				cfg.targetRoot = s
			}
		case "template_parameters":
			cfg.TemplateParameters = collectStringMap(n)
		case "tree":
			t, err := parseTree(n)
			if err != nil {
				return nil, err
			}
			cfg.Trees = append(cfg.Trees, t)
		}
	}
	return cfg, nil
}

func parseTree(n *document.Node) (*Tree, error) {
	name, _ := firstStringArg(n)
	t := &Tree{Name: name}
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "source_folder":
			if s, ok := firstStringArg(cn); ok {
				t.SourceFolder = s
			}
		case "object_folder":
			if s, ok := firstStringArg(cn); ok {
				t.ObjectFolder = s
			}
		case "temp_folder":
			if s, ok := firstStringArg(cn); ok {
				t.TempFolder = s
			}
		case "log_folder":
			if s, ok := firstStringArg(cn); ok {
				t.LogFolder = s
			}
		case "target_folder":
			if s, ok := firstStringArg(cn); ok {
				t.TargetFolder = s
			}
		case "build_command":
			if s, ok := firstStringArg(cn); ok {
				t.BuildCommand = s
			}
		case "ignore_patterns":
			t.IgnorePatterns = append(t.IgnorePatterns, collectStringArgs(cn)...)
		case "ignore_paths":
			t.IgnorePaths = append(t.IgnorePaths, collectStringArgs(cn)...)
		case "enabled_plugins":
			t.EnabledPlugins = append(t.EnabledPlugins, collectStringArgs(cn)...)
		}
	}
	if t.Name == "" {
		return nil, fmt.Errorf("tree node missing a name argument")
	}
	return t, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

// collectStringArgs gathers string arguments from a node, falling back
// to its children's node names for KDL's block form (e.g.
// ignore_patterns { "*.min.js"; "*.pyc"; }).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, cn := range n.Children {
			out = append(out, nodeName(cn))
		}
	}
	return out
}

func collectStringMap(n *document.Node) map[string]string {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.Children))
	for _, cn := range n.Children {
		if v, ok := firstStringArg(cn); ok {
			out[nodeName(cn)] = v
		}
	}
	return out
}
