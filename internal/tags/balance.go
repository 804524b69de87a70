package tags

// Balance rewrites a sorted-but-possibly-unbalanced stream into a
// balanced, non-overlapping, zero-width-free stream, per spec.md §4.4
// (C3). It is the hardest component in the pipeline: reparenthesization
// with a temporary-close stack, followed by zero-width elimination.
//
// Grounded on original_source/dxr/build.py's balanced_tags (composition
// of balanced_tags_with_empties and without_empty_tags).
func Balance(stream []Boundary) []Boundary {
	return withoutEmptyTags(balancedWithEmpties(stream))
}

// balancedWithEmpties performs the reparenthesization pass: whenever a
// close boundary doesn't match the top of the open stack, it temporarily
// closes (and later reopens) every intermediate payload, producing a
// balanced stream that may contain zero-width spans. Payloads closed to
// let a Line close are reopened only after the next Line opens, so every
// Line stays outermost and each line's tags are closed within it.
func balancedWithEmpties(stream []Boundary) []Boundary {
	var out []Boundary
	var opens []*Payload
	var closes []*Payload

	reopen := func(offset int) {
		for len(closes) > 0 {
			intermediate := closes[len(closes)-1]
			closes = closes[:len(closes)-1]
			out = append(out, Boundary{Offset: offset, IsStart: true, Payload: intermediate})
			opens = append(opens, intermediate)
		}
	}

	for _, b := range stream {
		if b.IsStart {
			out = append(out, b)
			opens = append(opens, b.Payload)
			if b.Payload.Kind == KindLine {
				reopen(b.Offset)
			}
			continue
		}
		// Close whatever was opened between the matching open and here.
		for opens[len(opens)-1] != b.Payload {
			intermediate := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			out = append(out, Boundary{Offset: b.Offset, IsStart: false, Payload: intermediate})
			closes = append(closes, intermediate)
		}

		// Close the current tag.
		out = append(out, Boundary{Offset: b.Offset, IsStart: false, Payload: b.Payload})
		opens = opens[:len(opens)-1]

		if b.Payload.Kind != KindLine {
			reopen(b.Offset)
		}
	}
	return out
}

// withoutEmptyTags strips zero-width tagged spans from a sorted, balanced
// stream, comparing payloads by pointer identity (not equality), per
// spec.md §4.4 "Zero-width elimination".
func withoutEmptyTags(stream []Boundary) []Boundary {
	var out []Boundary
	var buffer []Boundary
	depth := 0

	for _, b := range stream {
		if b.IsStart {
			buffer = append(buffer, b)
			depth++
			continue
		}
		top := buffer[len(buffer)-1]
		if top.Payload == b.Payload && top.Offset == b.Offset {
			// Zero-width: the open we just buffered and this close bracket
			// nothing. Cancel both.
			buffer = buffer[:len(buffer)-1]
		} else {
			buffer = append(buffer, b)
		}
		depth--

		if depth == 0 {
			out = append(out, buffer...)
			buffer = buffer[:0]
		}
	}
	return out
}
