package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/types"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.pyc"), []byte("binary"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "dep.go"), []byte("package vendor\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "util.go"), []byte("package sub\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.dat"), []byte{0x00, 0x01, 0x02}, 0o644))
	return root
}

func TestIndex_WalksTreeApplyingIgnoreRulesAndTextDetection(t *testing.T) {
	root := writeTree(t)
	tree := &config.Tree{
		SourceFolder:   root,
		IgnorePatterns: []string{"*.pyc"},
		IgnorePaths:    []string{"/vendor/"},
	}

	s := store.New()
	w := s.NewWriter()
	res, err := Index(tree, w)
	require.NoError(t, err)

	r := s.NewReader()
	assert.Equal(t, 2, int(w.MaxID())) // main.go, sub/util.go — vendor/pyc/bin.dat excluded

	var paths []string
	for id := types.FileID(1); id <= w.MaxID(); id++ {
		rec, ok := r.File(id)
		require.True(t, ok)
		paths = append(paths, rec.Path)
	}
	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "sub/util.go")
	assert.NotContains(t, paths, "main.pyc")
	assert.NotContains(t, paths, "vendor/dep.go")
	assert.NotContains(t, paths, "bin.dat")

	var rootFolder *Folder
	for i := range res.Folders {
		if res.Folders[i].Path == "" {
			rootFolder = &res.Folders[i]
		}
	}
	require.NotNil(t, rootFolder)
	assert.Equal(t, []string{"main.go"}, rootFolder.Files)
	assert.Equal(t, []string{"sub"}, rootFolder.Folders)
}

// TestProperty_ReindexingUnchangedTreeIsIdempotent covers testable
// property 6: indexing the same tree twice must not grow the id space.
func TestProperty_ReindexingUnchangedTreeIsIdempotent(t *testing.T) {
	root := writeTree(t)
	tree := &config.Tree{SourceFolder: root, IgnorePatterns: []string{"*.pyc"}, IgnorePaths: []string{"/vendor/"}}

	s := store.New()
	w := s.NewWriter()
	_, err := Index(tree, w)
	require.NoError(t, err)
	firstMax := w.MaxID()

	_, err = Index(tree, w)
	require.NoError(t, err)
	assert.Equal(t, firstMax, w.MaxID())
}
