package tags

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/types"
)

// fakeHtmlifier is a test double exposing a fixed set of regions/refs.
type fakeHtmlifier struct {
	regions []types.Region
	refs    []types.Ref
}

func (f fakeHtmlifier) Regions() []types.Region { return f.regions }
func (f fakeHtmlifier) Refs() []types.Ref       { return f.refs }

func htmlify(text string, h fakeHtmlifier) ([]string, error) {
	return DecorateLines([]byte(text), []FileHtmlifier{h})
}

// S1 - Single-line region.
func TestScenario_S1_SingleLineRegion(t *testing.T) {
	lines, err := htmlify("ab\n", fakeHtmlifier{
		regions: []types.Region{{Interval: types.Interval{Start: 0, End: 2}, Class: "k"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`<span class="k">ab</span>`}, lines)
}

// S2 - Multi-line region.
func TestScenario_S2_MultiLineRegion(t *testing.T) {
	lines, err := htmlify("ab\ncd\n", fakeHtmlifier{
		regions: []types.Region{{Interval: types.Interval{Start: 0, End: 5}, Class: "k"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		`<span class="k">ab</span>`,
		`<span class="k">cd</span>`,
	}, lines)
}

// S3 - Nested region inside anchor.
func TestScenario_S3_NestedRegionInsideAnchor(t *testing.T) {
	lines, err := htmlify("abcd\n", fakeHtmlifier{
		refs:    []types.Ref{{Interval: types.Interval{Start: 0, End: 4}, Menu: map[string]string{"h": "x"}}},
		regions: []types.Region{{Interval: types.Interval{Start: 1, End: 3}, Class: "k"}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, `<a data-menu="{&quot;h&quot;: &quot;x&quot;}">a<span class="k">bc</span>d</a>`, lines[0])
}

// S4 - Overlapping anchors rejected; only the first survives.
func TestScenario_S4_OverlappingAnchorsRejected(t *testing.T) {
	lines, err := htmlify("abcd\n", fakeHtmlifier{
		refs: []types.Ref{
			{Interval: types.Interval{Start: 0, End: 3}, Menu: "A"},
			{Interval: types.Interval{Start: 2, End: 4}, Menu: "B"},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `&quot;A&quot;`)
	assert.NotContains(t, lines[0], `&quot;B&quot;`)
	assert.Equal(t, `<a data-menu="`+`&quot;A&quot;`+`">abc</a>d`, lines[0])
}

// S5 - Zero-length intervals are rejected at the producer boundary.
func TestScenario_S5_ZeroLengthIntervalRejected(t *testing.T) {
	_, err := htmlify("ab\n", fakeHtmlifier{
		refs: []types.Ref{{Interval: types.Interval{Start: 0, End: 0}, Menu: "M"}},
	})
	assert.Error(t, err)
}

// Property 4: line partition. Concatenating all emitted lines, after
// stripping inserted tags, reproduces the original text modulo \r\n
// stripping at boundaries.
func TestProperty_LinePartition(t *testing.T) {
	text := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	lines, err := htmlify(text, fakeHtmlifier{
		regions: []types.Region{
			{Interval: types.Interval{Start: 0, End: 7}, Class: "kw"},
			{Interval: types.Interval{Start: 13, End: 45}, Class: "body"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, len(lines))

	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = html.UnescapeString(tagPattern.ReplaceAllString(l, ""))
	}
	assert.Equal(t, text, strings.Join(stripped, "\n")+"\n")
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Property 5: anchor non-overlap in rendered output.
func TestProperty_AnchorsNeverOverlap(t *testing.T) {
	lines, err := htmlify("abcdef\n", fakeHtmlifier{
		refs: []types.Ref{
			{Interval: types.Interval{Start: 0, End: 3}, Menu: "A"},
			{Interval: types.Interval{Start: 1, End: 5}, Menu: "B"},
			{Interval: types.Interval{Start: 4, End: 6}, Menu: "C"},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, countSubstring(lines[0], "<a "))
}

func countSubstring(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}

func TestEmptyFileProducesNoLineMarkers(t *testing.T) {
	b := lineBoundaries(nil)
	assert.Nil(t, b)
}

func TestCRLFCollapsedToOneTerminator(t *testing.T) {
	lines, err := htmlify("ab\r\ncd\r\n", fakeHtmlifier{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "cd"}, lines)
}
