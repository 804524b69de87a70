// Command dxr is the build driver CLI: it loads a KDL config file,
// indexes each configured tree (C5), decorates its files in parallel
// (C6), and emits the resulting HTML site (C8). Structured the way the
// teacher's cmd/lci/main.go lays out its urfave/cli app: one top-level
// App with a "build" command and per-tree/per-run flag overrides.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/direrr"
	"github.com/standardbeagle/dxr/internal/indexer"
	"github.com/standardbeagle/dxr/internal/plugin"
	"github.com/standardbeagle/dxr/internal/plugin/plain"
	"github.com/standardbeagle/dxr/internal/render"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/worker"
)

func availablePlugins() map[string]plugin.Indexer {
	return map[string]plugin.Indexer{
		"plain": plain.New(),
	}
}

func pluginsForTree(tree *config.Tree) []plugin.Indexer {
	all := availablePlugins()
	if len(tree.EnabledPlugins) == 0 {
		out := make([]plugin.Indexer, 0, len(all))
		for _, p := range all {
			out = append(out, p)
		}
		return out
	}
	out := make([]plugin.Indexer, 0, len(tree.EnabledPlugins))
	for _, name := range tree.EnabledPlugins {
		if p, ok := all[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

func buildTree(ctx context.Context, tree *config.Tree, jobs, rangeSize int, verbose bool, logger *log.Logger) error {
	s := store.New()
	w := s.NewWriter()

	plugins := pluginsForTree(tree)

	logger.Printf("indexing tree %q from %s", tree.Name, tree.SourceFolder)
	result, err := indexer.Index(tree, w)
	if err != nil {
		return err
	}

	env := map[string]string{}
	for _, p := range plugins {
		if err := p.PreProcess(tree, env); err != nil {
			return direrr.PluginSetup(fmt.Sprintf("%T", p), err)
		}
	}
	env["source_folder"] = tree.SourceFolder
	env["build_folder"] = tree.ObjectFolder

	logger.Printf("building tree %q", tree.Name)
	if err := runExternalBuild(tree, env, verbose); err != nil {
		return err
	}

	for _, p := range plugins {
		if err := p.PostProcess(tree, w); err != nil {
			return direrr.PluginSetup(fmt.Sprintf("%T", p), err)
		}
	}

	renderer := render.NewRenderer()

	logger.Printf("decorating tree %q (%d files)", tree.Name, int(w.MaxID()))
	workerCfg := worker.Config{RangeSize: rangeSize, Concurrency: jobs, Plugins: plugins, Logger: logger}
	if err := worker.Run(ctx, s, tree, workerCfg, renderer); err != nil {
		return err
	}

	for _, folder := range result.Folders {
		if err := renderer.EmitFolder(tree, render.FolderListing{
			Path:    folder.Path,
			Files:   folder.Files,
			Folders: folder.Folders,
		}); err != nil {
			return direrr.IndexingIO("emit folder", folder.Path, err)
		}
	}

	logger.Printf("tree %q built", tree.Name)
	return nil
}

func runBuild(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	var trees []*config.Tree
	if name := c.String("tree"); name != "" {
		t, err := cfg.TreeByName(name)
		if err != nil {
			return err
		}
		trees = []*config.Tree{t}
	} else {
		trees = cfg.Trees
	}

	// --jobs is nb_jobs (spec.md §6/§4.7): the worker pool's concurrency
	// bound, and the value substituted for $jobs in a tree's build
	// command. It overrides the config file's nb_jobs for this run.
	if j := c.Int("jobs"); j > 0 {
		cfg.NbJobs = j
	}

	logger := log.New(os.Stderr, "dxr: ", log.LstdFlags)
	verbose := c.Bool("verbose")

	for _, tree := range trees {
		if err := buildTree(c.Context, tree, cfg.NbJobs, worker.DefaultRangeSize, verbose, logger); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "dxr",
		Usage: "build a cross-referenced, searchable HTML site from a source tree",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "index and decorate the configured trees",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "path to the KDL config file",
						Value:   "dxr.kdl",
					},
					&cli.StringFlag{
						Name:  "tree",
						Usage: "build only this tree (defaults to every configured tree)",
					},
					&cli.IntFlag{
						Name:  "jobs",
						Usage: "nb_jobs: worker pool concurrency and $jobs in build_command (defaults to CPU count)",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "don't dump the build log to stderr when the external build command fails",
					},
				},
				Action: runBuild,
			},
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
