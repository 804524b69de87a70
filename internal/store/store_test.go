package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/types"
)

func TestWriter_AssignsDenseAscendingIDs(t *testing.T) {
	s := New()
	w := s.NewWriter()

	id1 := w.InsertFile(types.FileRecord{Path: "a.go", Bytes: []byte("package a")})
	id2 := w.InsertFile(types.FileRecord{Path: "b.go", Bytes: []byte("package b")})

	assert.Equal(t, types.FileID(1), id1)
	assert.Equal(t, types.FileID(2), id2)
	assert.Equal(t, types.FileID(2), w.MaxID())
}

// TestProperty_ReindexingSamePathIsIdempotent covers testable property
// 6: re-running indexing over an unchanged tree must not grow the id
// space or duplicate records.
func TestProperty_ReindexingSamePathIsIdempotent(t *testing.T) {
	s := New()
	w := s.NewWriter()

	first := w.InsertFile(types.FileRecord{Path: "a.go", Bytes: []byte("v1")})
	second := w.InsertFile(types.FileRecord{Path: "a.go", Bytes: []byte("v2")})

	assert.Equal(t, first, second)
	assert.Equal(t, types.FileID(1), w.MaxID())

	r := s.NewReader()
	rec, ok := r.File(first)
	require.True(t, ok)
	assert.Equal(t, "v2", string(rec.Bytes))
}

func TestReader_FilesInRange(t *testing.T) {
	s := New()
	w := s.NewWriter()
	w.InsertFile(types.FileRecord{Path: "a.go"})
	w.InsertFile(types.FileRecord{Path: "b.go"})
	w.InsertFile(types.FileRecord{Path: "c.go"})

	r := s.NewReader()
	files := r.FilesInRange(2, 3)
	require.Len(t, files, 2)
	assert.Equal(t, "b.go", files[0].Path)
	assert.Equal(t, "c.go", files[1].Path)
}

func TestReader_SearchReflectsIndexedText(t *testing.T) {
	s := New()
	w := s.NewWriter()
	id := w.InsertFile(types.FileRecord{Path: "a.go", Bytes: []byte("func get_foo() {}")})

	r := s.NewReader()
	got, err := r.Search("get*")
	require.NoError(t, err)
	assert.Equal(t, []types.FileID{id}, got)
}
