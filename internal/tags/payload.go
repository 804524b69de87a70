package tags

import (
	"bytes"
	"encoding/json"
	"strings"
)

// escapeText escapes &, <, and > only, matching cgi.escape(s) (no quote
// escaping) as used for rendered source text in the original implementation.
func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// escapeAttr additionally escapes double quotes, matching
// cgi.escape(s, True) as used for the class and data-menu attribute values.
func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// encodeMenu JSON-encodes a ref's menu payload the way CPython's
// json.dumps(obj) does by default: compact, but with ", " and ": " as the
// item and key separators (Go's encoder has no separator option and emits
// both without the space). SetEscapeHTML(false) additionally matches
// json.dumps in not escaping <, >, and &, since escapeAttr below handles
// the HTML-attribute escaping pass.
func encodeMenu(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return addJSONSeparatorSpaces(strings.TrimSuffix(buf.String(), "\n"))
}

// addJSONSeparatorSpaces inserts a space after every structural ':' and ','
// in compact JSON, skipping over string literals (including their escaped
// quotes), to match json.dumps's default (', ', ': ') separators.
func addJSONSeparatorSpaces(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 8)
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		out.WriteByte(c)
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ':', ',':
			out.WriteByte(' ')
		}
	}
	return out.String()
}

// Kind discriminates the closed set of tag payload variants: Line, Anchor,
// and Region. Dispatch is on this field, never on dynamic type assertions,
// so the union stays closed the way spec.md §9 requires.
type Kind int

const (
	KindLine Kind = iota
	KindAnchor
	KindRegion
)

// rank implements the nesting-order key's tertiary sort: Line=0, Anchor=1,
// Region=2, negated on close so that at one offset Lines open first and
// close last, i.e. sort outermost both ways (spec.md §3 "Nesting-order key").
func (k Kind) rank() int {
	switch k {
	case KindLine:
		return 0
	case KindAnchor:
		return 1
	default:
		return 2
	}
}

// Payload is one tag's identity and rendering. Payloads are compared by
// pointer identity throughout C2-C4 (spec.md §9(b)'s "payload identity vs.
// equality"); Go's reference semantics make this free, unlike languages
// that must assign a synthetic sequence number.
type Payload struct {
	Kind  Kind
	Class string      // KindRegion
	Menu  interface{} // KindAnchor
}

// opener renders the opening markup for a non-Line payload.
func (p *Payload) opener() string {
	switch p.Kind {
	case KindRegion:
		return `<span class="` + escapeAttr(p.Class) + `">`
	case KindAnchor:
		return `<a data-menu="` + escapeAttr(encodeMenu(p.Menu)) + `">`
	default:
		return ""
	}
}

// closer renders the closing markup for a non-Line payload.
func (p *Payload) closer() string {
	switch p.Kind {
	case KindRegion:
		return `</span>`
	case KindAnchor:
		return `</a>`
	default:
		return ""
	}
}

// Boundary is one (offset, is_start, payload) triple in the tag stream,
// using the Python-slice convention: Offset is the byte position the tag
// opens before (IsStart) or closes before (!IsStart).
type Boundary struct {
	Offset  int
	IsStart bool
	Payload *Payload
}

// less implements the nesting-order key of spec.md §3: primary key Offset;
// secondary key IsStart with ends before starts at equal offsets; tertiary
// key the negated-on-close class rank.
func less(a, b Boundary) bool {
	if a.Offset != b.Offset {
		return a.Offset < b.Offset
	}
	if a.IsStart != b.IsStart {
		// ends (IsStart=false) sort before starts (IsStart=true)
		return !a.IsStart
	}
	ra, rb := a.Payload.Kind.rank(), b.Payload.Kind.rank()
	if a.IsStart {
		return ra < rb
	}
	return -ra < -rb
}
