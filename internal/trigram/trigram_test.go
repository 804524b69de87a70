package trigram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/dxr/internal/types"
)

// TestScenario_S6_WildcardSearch encodes spec.md §8 S6: a single file
// containing get_foo, get_bar, and getX, where get* returns exactly
// these three identifiers in file order, get_fo? matches only get_foo,
// and the literal get_ (no wildcard) matches nothing because '_' is not
// a wildcard character.
func TestScenario_S6_WildcardSearch(t *testing.T) {
	ix := New()
	ix.Insert(types.FileID(1), "func get_foo() int { return 1 }\n"+
		"func get_bar() int { return 2 }\n"+
		"func getX() int { return 3 }\n")
	ix.Insert(types.FileID(2), "func unrelated() int { return 4 }")

	star, err := ix.SearchTokens("get*")
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{FileID: 1, Token: "get_foo"},
		{FileID: 1, Token: "get_bar"},
		{FileID: 1, Token: "getX"},
	}, star)

	question, err := ix.SearchTokens("get_fo?")
	require.NoError(t, err)
	assert.Equal(t, []Match{{FileID: 1, Token: "get_foo"}}, question)

	literal, err := ix.SearchTokens("get_")
	require.NoError(t, err)
	assert.Empty(t, literal)
}

func TestSearch_ExactToken(t *testing.T) {
	ix := New()
	ix.Insert(types.FileID(1), "widget_count")
	ix.Insert(types.FileID(2), "widget_count_total")

	got, err := ix.Search("widget_count")
	require.NoError(t, err)
	assert.Equal(t, []types.FileID{1}, got)
}

func TestSearch_NoMatchReturnsEmptyNotNilError(t *testing.T) {
	ix := New()
	ix.Insert(types.FileID(1), "alpha beta")

	got, err := ix.Search("zzz*")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ShortLiteralFallsBackToFullScan(t *testing.T) {
	ix := New()
	ix.Insert(types.FileID(1), "ab")
	ix.Insert(types.FileID(2), "abc")

	got, err := ix.Search("a?")
	require.NoError(t, err)
	assert.Equal(t, []types.FileID{1}, got)
}

func TestProperty_ResultsDeduplicatedAndSortedAscending(t *testing.T) {
	ix := New()
	ix.Insert(types.FileID(5), "repeat repeat repeat")
	ix.Insert(types.FileID(2), "repeat")
	ix.Insert(types.FileID(9), "repeat")

	got, err := ix.Search("repeat")
	require.NoError(t, err)
	assert.Equal(t, []types.FileID{2, 5, 9}, got)
}
