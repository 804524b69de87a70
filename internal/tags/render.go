package tags

import "strings"

// Render walks a balanced stream once, interleaving escaped source slices
// with opening/closing markup, yielding one HTML fragment per source
// line, per spec.md §4.5 (C4).
//
// Grounded on original_source/dxr/build.py's html_lines. The Line flush is
// deferred to the first open boundary at or past the recorded Line-close
// offset (or to the next offset if there is no open there), so the closers
// Balance places at a line's end stay on that line; per spec.md §9(b) any
// segments still buffered at end-of-stream are flushed as the final line.
func Render(text []byte, balanced []Boundary) []string {
	upTo := 0
	var segments []string
	var lines []string

	lineEndsAt := 0
	lineOpen := false // whether a pending Line-close offset is recorded

	flush := func() {
		if len(segments) > 0 {
			lines = append(lines, strings.Join(segments, ""))
			segments = segments[:0]
		}
	}

	for _, b := range balanced {
		segments = append(segments, escapeText(strings.Trim(string(text[upTo:b.Offset]), "\r\n")))
		upTo = b.Offset

		if lineOpen && (b.IsStart || b.Offset > lineEndsAt) {
			flush()
			lineOpen = false
		}

		if b.Payload.Kind == KindLine {
			if !b.IsStart {
				lineEndsAt = b.Offset
				lineOpen = true
			}
		} else if b.IsStart {
			segments = append(segments, b.Payload.opener())
		} else {
			segments = append(segments, b.Payload.closer())
		}
	}
	flush()
	return lines
}
