package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormatRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"/foo",
		"/foo/0",
		"/",
		"/a~1b",
		"/c%d",
		"/e^f",
		"/g|h",
		"/i\\j",
		"/k\"l",
		"/ ",
		"/m~0n",
	}

	for _, raw := range tests {
		tok, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, tok.String(), raw)
	}
}

func TestParseLeadingZero(t *testing.T) {
	tok, err := Parse("/01")
	require.NoError(t, err)
	require.Len(t, tok, 1)
	assert.Equal(t, KindName, tok[0].Kind, "leading zero index must not be treated as an array index")

	tok, err = Parse("/0")
	require.NoError(t, err)
	assert.Equal(t, KindIndex, tok[0].Kind)
}

func TestStrictTildeEscaping(t *testing.T) {
	SetStrict(true)
	defer SetStrict(false)

	_, err := Parse("/a~x")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Token)
}

func TestLenientTildeEscaping(t *testing.T) {
	SetStrict(false)
	tok, err := Parse("/a~x")
	require.NoError(t, err)
	require.Len(t, tok, 1)
	assert.Equal(t, "a~x", tok[0].Name)
}

func TestAppendTokenIsOutOfRangeOnRead(t *testing.T) {
	doc := []any{1, 2, 3}
	p, err := Parse("/-")
	require.NoError(t, err)

	_, ok := Get(doc, p)
	assert.False(t, ok)
}

func TestGetAndWithRoundTrip(t *testing.T) {
	doc := map[string]any{
		"foo": []any{"bar", "baz"},
	}

	p, err := Parse("/foo/1")
	require.NoError(t, err)

	v, ok := Get(doc, p)
	require.True(t, ok)
	assert.Equal(t, "baz", v)

	updated, ok := With(doc, p, v)
	require.True(t, ok)
	assert.Equal(t, doc, updated)
}

func TestWithAppend(t *testing.T) {
	doc := map[string]any{"items": []any{1, 2}}
	p, err := Parse("/items/-")
	require.NoError(t, err)

	updated, ok := With(doc, p, 3)
	require.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, updated.(map[string]any)["items"])
	assert.Equal(t, []any{1, 2}, doc["items"], "original tree must be untouched")
}

func TestParseRelative(t *testing.T) {
	rp, err := ParseRelative("2/foo/0")
	require.NoError(t, err)
	assert.Equal(t, 2, rp.Up)
	assert.False(t, rp.KeyIndicator)
	assert.Equal(t, "/foo/0", rp.Tail.String())

	rp, err = ParseRelative("1#")
	require.NoError(t, err)
	assert.Equal(t, 1, rp.Up)
	assert.True(t, rp.KeyIndicator)
}
