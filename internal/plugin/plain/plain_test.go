package plain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/tags"
)

func TestHtmlifier_MarksKeywordsAsRegions(t *testing.T) {
	p := New()
	text := []byte("func main() {\n\treturn\n}\n")

	h, ok := p.Htmlifier("main.go", text)
	require.True(t, ok)

	regions := h.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "func", string(text[regions[0].Start:regions[0].End]))
	assert.Equal(t, "return", string(text[regions[1].Start:regions[1].End]))
	assert.Empty(t, h.Refs())
	assert.Empty(t, h.Links())
}

func TestHtmlifier_FeedsDecorationPipelineEndToEnd(t *testing.T) {
	p := New()
	text := []byte("package main\n")

	h, ok := p.Htmlifier("main.go", text)
	require.True(t, ok)

	lines, err := tags.DecorateLines(text, []tags.FileHtmlifier{h})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `<span class="k">package</span>`)
}
