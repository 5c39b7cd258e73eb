package byml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_HashOfMixedTypes(t *testing.T) {
	doc := NewHash(map[string]*Node{
		"name":   NewString("link"),
		"health": NewUInt(800),
		"tags":   NewArray([]*Node{NewString("hero"), NewString("hero")}),
		"pos":    NewHash(map[string]*Node{"x": NewFloat(1.5, LittleEndian), "y": NewFloat(2.5, LittleEndian)}),
		"seed":   NewInt64(-123456789012),
		"flags":  NewNull(),
	})

	for _, endian := range []Endian{LittleEndian, BigEndian} {
		for _, version := range []uint16{2, 3, 4} {
			out, err := Encode(doc, endian, version)
			require.NoError(t, err)

			back, err := Decode(out)
			require.NoError(t, err)
			assert.True(t, Equal(doc, back), "endian=%v version=%d", endian, version)
		}
	}
}

func TestEncode_RejectsNonContainerRoot(t *testing.T) {
	_, err := Encode(NewString("x"), LittleEndian, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrType)
}

func TestEncode_RejectsBadVersion(t *testing.T) {
	_, err := Encode(NewHash(nil), LittleEndian, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecode_RejectsTruncatedBuffer(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}
