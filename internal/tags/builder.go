// Package tags implements the interleaved-interval-to-balanced-HTML
// pipeline: C1 (tag stream construction), C2 (overlap filtering), C3 (tag
// balancing), and C4 (line rendering), per spec.md §4.2-§4.5. It is
// grounded line-for-line on original_source/dxr/build.py's tag_boundaries,
// line_boundaries, nesting_order, non_overlapping_refs,
// balanced_tags_with_empties, without_empty_tags, and html_lines.
package tags

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/standardbeagle/dxr/internal/types"
)

// FileHtmlifier is the narrow slice of the C7 plugin contract C1 consumes:
// a file's syntax regions and cross-reference intervals. Anything
// satisfying plugin.FileHtmlifier (which additionally exposes Links())
// satisfies this interface structurally.
type FileHtmlifier interface {
	Regions() []types.Region
	Refs() []types.Ref
}

// lineSeparators mirrors the set of Unicode line terminators Python's
// str.splitlines recognizes, per spec.md §4.2 step 2.
var lineSeparators = map[rune]int{
	'\n':     1,
	'\r':     1, // \r\n collapsed to one boundary below
	'\v':     1,
	'\f':     1,
	0x001C:   1, // FILE SEPARATOR
	0x001D:   1, // GROUP SEPARATOR
	0x001E:   1, // RECORD SEPARATOR
	0x0085:   1, // NEL
	0x2028:   1, // LINE SEPARATOR
	0x2029:   1, // PARAGRAPH SEPARATOR
}

// Build constructs the sorted interleaved tag stream for one file: region
// and ref boundaries from every htmlifier, plus a Line open/close pair at
// every universal line boundary, sorted by the nesting-order key.
//
// Build rejects any interval with End<=Start or End>len(text) as a plugin
// contract violation (spec.md §4.1, §7 "malformed intervals").
func Build(text []byte, htmlifiers []FileHtmlifier) ([]Boundary, error) {
	var stream []Boundary

	for _, h := range htmlifiers {
		for _, r := range h.Regions() {
			if err := r.Interval.Validate(len(text)); err != nil {
				return nil, fmt.Errorf("region: %w", err)
			}
			p := &Payload{Kind: KindRegion, Class: r.Class}
			stream = append(stream,
				Boundary{Offset: r.Start, IsStart: true, Payload: p},
				Boundary{Offset: r.End, IsStart: false, Payload: p})
		}
		for _, ref := range h.Refs() {
			if err := ref.Interval.Validate(len(text)); err != nil {
				return nil, fmt.Errorf("ref: %w", err)
			}
			p := &Payload{Kind: KindAnchor, Menu: ref.Menu}
			stream = append(stream,
				Boundary{Offset: ref.Start, IsStart: true, Payload: p},
				Boundary{Offset: ref.End, IsStart: false, Payload: p})
		}
	}

	stream = append(stream, lineBoundaries(text)...)

	sort.SliceStable(stream, func(i, j int) bool { return less(stream[i], stream[j]) })
	return stream, nil
}

// lineBoundaries returns a Line open/close pair at every universal line
// boundary in text. Empty files produce no markers. All Line boundaries in
// a single file share one sentinel *Payload, matching the original's
// single shared Line() marker: the balancer never needs to tell two Line
// boundaries apart, only to know that a Line is (or isn't) currently open.
func lineBoundaries(text []byte) []Boundary {
	if len(text) == 0 {
		return nil
	}
	marker := &Payload{Kind: KindLine}

	var out []Boundary
	upTo := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRune(text[i:])
		if _, isSep := lineSeparators[r]; isSep {
			end := i + size
			// Collapse \r\n into a single terminator.
			if r == '\r' && end < len(text) && text[end] == '\n' {
				end++
			}
			out = append(out, Boundary{Offset: upTo, IsStart: true, Payload: marker})
			out = append(out, Boundary{Offset: end, IsStart: false, Payload: marker})
			upTo = end
			i = end
			continue
		}
		i += size
	}
	if upTo < len(text) {
		out = append(out, Boundary{Offset: upTo, IsStart: true, Payload: marker})
		out = append(out, Boundary{Offset: len(text), IsStart: false, Payload: marker})
	}
	return out
}
