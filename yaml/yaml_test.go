package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/byml/internal/core"
)

func TestUnmarshal_UntaggedDisambiguation(t *testing.T) {
	doc, err := Unmarshal([]byte("- 1\n- 1.5\n- true\n- false\n- hello\n- ~\n"))
	require.NoError(t, err)
	arr, err := doc.AsArray()
	require.NoError(t, err)
	require.Len(t, arr, 6)

	i, err := arr[0].AsInt()
	require.NoError(t, err)
	assert.Equal(t, int32(1), i)

	f, err := arr[1].AsFloat()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	b, err := arr[2].AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	b2, err := arr[3].AsBool()
	require.NoError(t, err)
	assert.False(t, b2)

	s, err := arr[4].AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	assert.True(t, arr[5].IsNull())
}

func TestUnmarshal_CustomTags(t *testing.T) {
	doc, err := Unmarshal([]byte("a: !u 5\nb: !l -9\nc: !ul 9\nd: !f64 1.25\n"))
	require.NoError(t, err)

	u, err := mustIndex(t, doc, "a").AsUInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), u)

	i64, err := mustIndex(t, doc, "b").AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9), i64)

	u64, err := mustIndex(t, doc, "c").AsUInt64()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), u64)

	d, err := mustIndex(t, doc, "d").AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.25, d)
}

func TestUnmarshal_Binary(t *testing.T) {
	doc, err := Unmarshal([]byte("!!binary aGVsbG8=\n"))
	require.NoError(t, err)
	b, err := doc.AsBinary()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestUnmarshal_IntegerKeyIsStringified(t *testing.T) {
	doc, err := Unmarshal([]byte("0: a\n1: b\n"))
	require.NoError(t, err)
	v, err := doc.Index("0")
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "a", s)
}

func TestMarshal_EmptyContainers(t *testing.T) {
	doc := core.NewHash(map[string]*core.Node{
		"arr": core.NewArray(nil),
		"obj": core.NewHash(nil),
	})
	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[]")
	assert.Contains(t, string(out), "{}")
}

func TestMarshal_TaggedScalars(t *testing.T) {
	doc := core.NewHash(map[string]*core.Node{
		"u":  core.NewUInt(5),
		"l":  core.NewInt64(-9),
		"ul": core.NewUInt64(9),
		"f":  core.NewDouble(1.25, core.LittleEndian),
	})
	out, err := Marshal(doc)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "!u 5")
	assert.Contains(t, text, "!l -9")
	assert.Contains(t, text, "!ul 9")
	assert.Contains(t, text, "!f64 1.25")
}

func TestMarshal_QuotesAmbiguousStrings(t *testing.T) {
	doc := core.NewArray([]*core.Node{core.NewString("true"), core.NewString("123"), core.NewString("plain")})
	out, err := Marshal(doc)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `"true"`)
	assert.Contains(t, text, `"123"`)
	assert.Contains(t, text, "- plain")
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	doc := core.NewHash(map[string]*core.Node{
		"name": core.NewString("test"),
		"list": core.NewArray([]*core.Node{core.NewInt(1), core.NewInt(2)}),
	})
	text, err := Marshal(doc)
	require.NoError(t, err)

	back, err := Unmarshal(text)
	require.NoError(t, err)
	assert.True(t, core.Equal(doc, back))
}

func mustIndex(t *testing.T, n *core.Node, key string) *core.Node {
	t.Helper()
	v, err := n.Index(key)
	require.NoError(t, err)
	return v
}
