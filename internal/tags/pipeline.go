package tags

// DecorateLines runs the full C1-C4 pipeline for one file: build the
// interleaved tag stream, drop overlapping cross-reference anchors,
// balance the stream, and render it into one HTML fragment per source
// line. This is the single call site a decoration worker (C6) needs.
func DecorateLines(text []byte, htmlifiers []FileHtmlifier) ([]string, error) {
	stream, err := Build(text, htmlifiers)
	if err != nil {
		return nil, err
	}
	stream = RemoveOverlappingRefs(stream)
	stream = Balance(stream)
	return Render(text, stream), nil
}
