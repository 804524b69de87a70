package tags

import "log"

// RemoveOverlappingRefs filters out the subset of Anchor boundaries that
// belong to overlapping anchors, keeping the first, per spec.md §4.3 (C2).
// Line and Region boundaries pass through unchanged; the input must
// already be sorted by the nesting-order key (Build's output).
//
// Grounded on original_source/dxr/build.py's non_overlapping_refs /
// remove_overlapping_refs.
func RemoveOverlappingRefs(stream []Boundary) []Boundary {
	out := stream[:0:0] // fresh backing array; never alias the caller's slice
	blacklist := make(map[*Payload]bool)
	var open *Payload

	for _, b := range stream {
		if b.Payload.Kind != KindAnchor {
			out = append(out, b)
			continue
		}
		switch {
		case blacklist[b.Payload]:
			delete(blacklist, b.Payload)
		case open == nil:
			open = b.Payload
			out = append(out, b)
		case open == b.Payload:
			open = nil
			out = append(out, b)
		default:
			log.Printf("tags: plugin requested overlapping <a> tags; dropping one (%v)", b.Payload.Menu)
			blacklist[b.Payload] = true
		}
	}
	return out
}
