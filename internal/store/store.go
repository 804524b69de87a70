// Package store is the concrete, in-process stand-in for the
// "relational schema" spec.md §5 treats as an external collaborator: a
// single mutex-guarded table of FileRecords plus the trigram full-text
// index built over their contents, split into a single-writer/
// many-reader handle pair the way the teacher's own internal/core
// index splits write and query paths.
package store

import (
	"sort"
	"sync"

	"github.com/standardbeagle/dxr/internal/trigram"
	"github.com/standardbeagle/dxr/internal/types"
)

// Store owns the files table and trigram index for one tree. It is not
// safe to use directly; obtain a Writer (C5's single indexing pass) or
// a Reader (C6's many concurrent worker ranges) instead.
type Store struct {
	mu       sync.RWMutex
	files    map[types.FileID]types.FileRecord
	maxID    types.FileID
	trigrams *trigram.Index
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		files:    make(map[types.FileID]types.FileRecord),
		trigrams: trigram.New(),
	}
}

// Writer is the Store's appender, used by C5's single indexing pass.
type Writer struct {
	s *Store
}

// NewWriter returns the Store's single writer handle.
func (s *Store) NewWriter() *Writer { return &Writer{s: s} }

// InsertFile assigns rec the next dense FileID (any ID rec already
// carries is ignored), records it, and indexes its text for full-text search.
// Re-inserting a path that's already recorded overwrites the existing
// record under its original id, keeping indexing idempotent across
// repeated builds (spec.md testable property 6).
func (w *Writer) InsertFile(rec types.FileRecord) types.FileID {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	if existing, ok := w.existingIDLocked(rec.Path); ok {
		rec.ID = existing
	} else {
		w.s.maxID++
		rec.ID = w.s.maxID
	}
	w.s.files[rec.ID] = rec
	w.s.trigrams.Insert(rec.ID, string(rec.Bytes))
	return rec.ID
}

func (w *Writer) existingIDLocked(path string) (types.FileID, bool) {
	for id, rec := range w.s.files {
		if rec.Path == path {
			return id, true
		}
	}
	return 0, false
}

// MaxID returns the highest FileID assigned so far, the upper bound C6
// partitions [1, MaxID] against.
func (w *Writer) MaxID() types.FileID {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()
	return w.s.maxID
}

// Reader is a read-only Store handle; C6 opens one per worker range.
type Reader struct {
	s *Store
}

// NewReader returns a new read-only handle onto the Store.
func (s *Store) NewReader() *Reader { return &Reader{s: s} }

// File returns the record for id, or false if id is unassigned.
func (r *Reader) File(id types.FileID) (types.FileRecord, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.files[id]
	return rec, ok
}

// MaxID returns the highest FileID assigned so far.
func (r *Reader) MaxID() types.FileID {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.maxID
}

// FilesInRange returns every FileRecord with an id in [lo, hi], sorted
// by ascending id, for one C6 worker range to process.
func (r *Reader) FilesInRange(lo, hi types.FileID) []types.FileRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []types.FileRecord
	for id, rec := range r.s.files {
		if id >= lo && id <= hi {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Search returns the ids of every file whose text contains a token
// matching pattern (spec.md §4.11 wildcard semantics).
func (r *Reader) Search(pattern string) ([]types.FileID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.trigrams.Search(pattern)
}
