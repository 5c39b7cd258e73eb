package core

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStringTable builds the raw bytes of a StringTable container (tag |
// count:u24 | offsets | NUL-terminated, 4-byte aligned strings) for strs,
// little-endian.
func buildStringTable(strs []string) []byte {
	relOffsets := make([]uint32, len(strs)+1)
	pos := uint32(4 + (len(strs)+1)*4)
	for i, s := range strs {
		relOffsets[i] = pos
		pos += uint32(len(s)) + 1
		pos = (pos + 3) &^ 3
	}
	relOffsets[len(strs)] = pos

	buf := make([]byte, 4)
	buf[0] = byte(TypeStringTable)
	buf[1] = byte(len(strs))
	buf[2] = 0
	buf[3] = 0
	for _, off := range relOffsets {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], off)
		buf = append(buf, b[:]...)
	}
	for _, s := range strs {
		buf = append(buf, []byte(s)...)
		buf = append(buf, 0)
		for len(buf)%4 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf
}

func TestReadStringTable_RoundTrip(t *testing.T) {
	strs := []string{"a", "bb", "ccc"}
	buf := buildStringTable(strs)

	st, err := readStringTable(buf, binary.LittleEndian, 0)
	require.NoError(t, err)
	assert.Equal(t, strs, st.Strings)

	for i, s := range strs {
		got, err := st.Get(uint32(i))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStringTable_Get_OutOfRange(t *testing.T) {
	st := &StringTable{Strings: []string{"x"}}
	_, err := st.Get(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndex))
}

func TestStringTable_IndexOf(t *testing.T) {
	st := &StringTable{Strings: []string{"a", "b"}}
	idx, ok := st.IndexOf("b")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), idx)

	_, ok = st.IndexOf("missing")
	assert.False(t, ok)
}

func TestReadStringTable_BadTag(t *testing.T) {
	buf := buildStringTable([]string{"a"})
	buf[0] = byte(TypeArray)
	_, err := readStringTable(buf, binary.LittleEndian, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestReadStringTable_Truncated(t *testing.T) {
	buf := buildStringTable([]string{"a", "b"})
	_, err := readStringTable(buf[:6], binary.LittleEndian, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}
