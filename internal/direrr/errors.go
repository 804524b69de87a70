// Package direrr implements the error taxonomy of spec.md §7 as typed,
// wrapped errors so callers can dispatch with errors.As while still
// getting a useful %v/Error() string. Grounded on the teacher's
// internal/errors package: one Kind per failure category, a single
// struct carrying the context that category needs, Unwrap for
// errors.Is/As.
package direrr

import "fmt"

// Kind names one of the error-taxonomy categories of spec.md §7.
type Kind string

const (
	KindConfig      Kind = "configuration"
	KindIndexingIO  Kind = "indexing_io"
	KindBuildFailed Kind = "external_build"
	KindIntegrity   Kind = "integrity_check"
	KindPluginSetup Kind = "plugin_setup"
	KindDecoration  Kind = "decoration"
)

// Error is a typed build error carrying the file/tree context relevant
// to its Kind.
type Error struct {
	Kind       Kind
	Op         string
	Tree       string
	FileID     uint32
	Path       string
	Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Kind, e.Op, e.Path, e.Underlying)
	case e.Tree != "":
		return fmt.Sprintf("%s: %s failed for tree %s: %v", e.Kind, e.Op, e.Tree, e.Underlying)
	default:
		return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Op, e.Underlying)
	}
}

func (e *Error) Unwrap() error { return e.Underlying }

// Config reports a malformed config file or unknown tree name.
func Config(op string, err error) *Error {
	return &Error{Kind: KindConfig, Op: op, Underlying: err}
}

// IndexingIO reports an unreadable file or index-store failure during C5.
func IndexingIO(op, path string, err error) *Error {
	return &Error{Kind: KindIndexingIO, Op: op, Path: path, Underlying: err}
}

// BuildFailed reports a non-zero exit from the external build command.
func BuildFailed(tree string, err error) *Error {
	return &Error{Kind: KindBuildFailed, Op: "run external build", Tree: tree, Underlying: err}
}

// Integrity reports an index-store integrity-check failure.
func Integrity(err error) *Error {
	return &Error{Kind: KindIntegrity, Op: "integrity check", Underlying: err}
}

// PluginSetup reports a failing plugin hook: PreProcess or PostProcess in
// the build driver, or Load in a decoration worker. The recorded Op reads
// "pre_process <plugin>" whichever hook failed. Malformed intervals are
// reported through Decoration instead.
func PluginSetup(plugin string, err error) *Error {
	return &Error{Kind: KindPluginSetup, Op: "pre_process " + plugin, Underlying: err}
}

// Decoration reports an uncaught error from a single decoration task,
// with the file id and path being processed when it failed.
func Decoration(fileID uint32, path string, err error) *Error {
	return &Error{Kind: KindDecoration, Op: "decorate", FileID: fileID, Path: path, Underlying: err}
}
