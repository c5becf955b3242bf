package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataspec/jsonschema/value"
)

const bookstoreJSON = `{
	"store": {
		"book": [
			{"category": "fiction", "title": "Sword of Honour", "price": 12.99},
			{"category": "fiction", "title": "Moby Dick", "price": 8.99},
			{"category": "reference", "title": "Nigel Rees", "price": 8.95}
		],
		"bicycle": {"color": "red", "price": 19.95}
	}
}`

func mustValue(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := value.ReadJSON([]byte(src))
	require.NoError(t, err, "failed to parse test fixture JSON")
	return v
}

func titlesOf(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, _ := n.Value.String()
		out = append(out, s)
	}
	return out
}

func TestCompileRoundTrip(t *testing.T) {
	cases := []string{
		"$.store.book",
		"$.store.book[0]",
		"$..book[?@.price<10]",
		"$.store.book[0,1]",
		"$.store.book[1:3]",
		"$..*",
	}
	for _, c := range cases {
		q, err := Compile(c)
		require.NoError(t, err, "Compile(%q) should succeed", c)
		assert.NotEmpty(t, q.String(), "String() should not be empty for %q", c)
		again, err := Compile(q.String())
		require.NoError(t, err, "Compile(%q) should accept String() of %q", q.String(), c)
		assert.Equal(t, q.String(), again.String())
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []string{
		"store.book",
		"$[",
		"$.store[?]",
	}
	for _, c := range cases {
		_, err := Compile(c)
		assert.Error(t, err, "Compile(%q) should fail", c)
	}
}

func TestSelectShorthandName(t *testing.T) {
	root := mustValue(t, bookstoreJSON)
	q := MustCompile("$.store.bicycle.color")
	nodes := q.Select(root)
	require.Len(t, nodes, 1)
	s, ok := nodes[0].Value.String()
	require.True(t, ok)
	assert.Equal(t, "red", s)
}

func TestSelectWildcardAndIndex(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[*].title").Select(root)
	assert.Equal(t, []string{"Sword of Honour", "Moby Dick", "Nigel Rees"}, titlesOf(nodes))

	nodes = MustCompile("$.store.book[0].title").Select(root)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"Sword of Honour"}, titlesOf(nodes))

	nodes = MustCompile("$.store.book[-1].title").Select(root)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"Nigel Rees"}, titlesOf(nodes))
}

func TestSelectSlice(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[0:2].title").Select(root)
	assert.Equal(t, []string{"Sword of Honour", "Moby Dick"}, titlesOf(nodes))

	nodes = MustCompile("$.store.book[::-1].title").Select(root)
	assert.Equal(t, []string{"Nigel Rees", "Moby Dick", "Sword of Honour"}, titlesOf(nodes))
}

func TestSelectDescendant(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$..price").Select(root)
	assert.Len(t, nodes, 4)
}

func TestSelectFilterComparison(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[?@.price<10].title").Select(root)
	assert.Equal(t, []string{"Moby Dick", "Nigel Rees"}, titlesOf(nodes))

	nodes = MustCompile("$.store.book[?@.category==\"reference\"].title").Select(root)
	assert.Equal(t, []string{"Nigel Rees"}, titlesOf(nodes))
}

func TestSelectFilterExistence(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[?@.price]").Select(root)
	assert.Len(t, nodes, 3)

	nodes = MustCompile("$.store.book[?@.nonexistent]").Select(root)
	assert.Empty(t, nodes)
}

func TestSelectFilterLogical(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[?@.price<10 && @.category==\"fiction\"].title").Select(root)
	assert.Equal(t, []string{"Moby Dick"}, titlesOf(nodes))

	nodes = MustCompile("$.store.book[?@.price<9 || @.category==\"reference\"].title").Select(root)
	assert.Equal(t, []string{"Moby Dick", "Nigel Rees"}, titlesOf(nodes))
}

func TestSelectFilterFunctionLength(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[?length(@.title)>10].title").Select(root)
	assert.ElementsMatch(t, []string{"Sword of Honour"}, titlesOf(nodes))
}

func TestSelectFilterFunctionCount(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$[?count(@.book[*])>2]").Select(root)
	assert.Len(t, nodes, 1)
}

func TestSelectFilterFunctionMatch(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	nodes := MustCompile("$.store.book[?match(@.category, \"fic.*\")].title").Select(root)
	assert.Equal(t, []string{"Sword of Honour", "Moby Dick"}, titlesOf(nodes))
}

func TestExists(t *testing.T) {
	root := mustValue(t, bookstoreJSON)

	assert.True(t, MustCompile("$.store.bicycle").Exists(root))
	assert.False(t, MustCompile("$.store.car").Exists(root))
}

func TestNormalizedPath(t *testing.T) {
	root := mustValue(t, bookstoreJSON)
	nodes := MustCompile("$.store.book[0].title").Select(root)
	require.Len(t, nodes, 1)
	assert.Equal(t, "$['store']['book'][0]['title']", nodes[0].Path)
}
