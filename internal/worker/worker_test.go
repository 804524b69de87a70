package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/config"
	"github.com/standardbeagle/dxr/internal/plugin"
	"github.com/standardbeagle/dxr/internal/store"
	"github.com/standardbeagle/dxr/internal/types"
)

type recordingEmitter struct {
	mu    sync.Mutex
	paths []string
	fail  string // fail EmitFile for this path
}

func (e *recordingEmitter) EmitFile(tree *config.Tree, rec types.FileRecord, lines []string, htmlifiers []plugin.FileHtmlifier) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rec.Path == e.fail {
		return errors.New("boom")
	}
	e.paths = append(e.paths, rec.Path)
	return nil
}

type noopPlugin struct{}

func (noopPlugin) PreProcess(*config.Tree, map[string]string) error { return nil }
func (noopPlugin) PostProcess(*config.Tree, *store.Writer) error    { return nil }
func (noopPlugin) Load(*config.Tree, *store.Reader) error           { return nil }
func (noopPlugin) Htmlifier(path string, text []byte) (plugin.FileHtmlifier, bool) {
	return nil, false
}

func TestRun_DecoratesEveryFileAcrossRanges(t *testing.T) {
	s := store.New()
	w := s.NewWriter()
	for i := 0; i < 5; i++ {
		w.InsertFile(types.FileRecord{Path: string(rune('a' + i)), Bytes: []byte("text")})
	}

	tree := &config.Tree{Name: "t"}
	emitter := &recordingEmitter{}

	err := Run(context.Background(), s, tree, Config{RangeSize: 2, Plugins: []plugin.Indexer{noopPlugin{}}}, emitter)
	require.NoError(t, err)
	assert.Len(t, emitter.paths, 5)
}

func TestRun_StopsOnFirstError(t *testing.T) {
	s := store.New()
	w := s.NewWriter()
	w.InsertFile(types.FileRecord{Path: "ok.go", Bytes: []byte("text")})
	w.InsertFile(types.FileRecord{Path: "bad.go", Bytes: []byte("text")})

	tree := &config.Tree{Name: "t"}
	emitter := &recordingEmitter{fail: "bad.go"}

	err := Run(context.Background(), s, tree, Config{RangeSize: 500, Plugins: []plugin.Indexer{noopPlugin{}}}, emitter)
	require.Error(t, err)
}

func TestRun_EmptyStoreIsNoop(t *testing.T) {
	s := store.New()
	tree := &config.Tree{Name: "t"}
	err := Run(context.Background(), s, tree, Config{}, &recordingEmitter{})
	require.NoError(t, err)
}
