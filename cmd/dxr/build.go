package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/direrr"
)

// runExternalBuild shells out to tree.BuildCommand the way the original
// build_tree does: $jobs substituted with the tree's nb_jobs, run with
// shell interpretation, cwd=object_folder, stdout/stderr captured to a
// build.log under the tree's log folder. A tree with no build_command
// configured is a no-op. On a non-zero exit it returns a BuildFailed
// error and, unless verbose, dumps the log to stderr.
func runExternalBuild(tree *config.Tree, env map[string]string, verbose bool) error {
	if tree.BuildCommand == "" {
		return nil
	}

	if err := os.MkdirAll(tree.LogFolder, 0o755); err != nil {
		return direrr.IndexingIO("mkdir log folder", tree.LogFolder, err)
	}
	logPath := filepath.Join(tree.LogFolder, "build.log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return direrr.IndexingIO("open build log", logPath, err)
	}
	defer logFile.Close()

	jobs := strconv.Itoa(tree.Config().NbJobs)
	command := strings.ReplaceAll(tree.BuildCommand, "$jobs", jobs)

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = tree.ObjectFolder
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = mergeEnv(os.Environ(), env)

	runErr := cmd.Run()
	if runErr == nil {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Build command for %q failed, exited non-zero.\n", tree.Name)
	if !verbose {
		fmt.Fprintln(os.Stderr, "Log follows:")
		dumpLog(logPath)
	}
	return direrr.BuildFailed(tree.Name, runErr)
}

// mergeEnv overlays extra on top of base as "key=value" entries, the way
// the original passes a plain dict as the subprocess environment after
// plugins have mutated it.
func mergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}

// dumpLog prints logPath's contents to stderr, one "    | "-prefixed line
// at a time, mirroring the original's non-verbose failure output.
func dumpLog(logPath string) {
	f, err := os.Open(logPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fmt.Fprintf(os.Stderr, "    | %s\n", scanner.Text())
	}
}
