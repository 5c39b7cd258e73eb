package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/scigolib/byml/internal/utils"
)

// StringTable is a decoded `StringTable` container (tag 0xC2): an ordered,
// indexable list of strings, used for both the key table and the value
// table. See the binary wire format in the package doc for the on-disk
// layout.
type StringTable struct {
	Strings []string
}

// Get returns the string at idx, or an index-range error.
func (st *StringTable) Get(idx uint32) (string, error) {
	if st == nil || idx >= uint32(len(st.Strings)) {
		n := 0
		if st != nil {
			n = len(st.Strings)
		}
		return "", fmt.Errorf("%w: string table index %d out of range [0,%d)", ErrIndex, idx, n)
	}
	return st.Strings[idx], nil
}

// IndexOf returns s's position in the table. Callers (the writer) only ever
// look up strings they themselves inserted during interning, so a miss is a
// programming error rather than a malformed-input error. Strings is always
// sorted (interning's final step), so the lookup is a binary search rather
// than a linear scan -- this is the hot path for every hash entry and string
// leaf emitted by the writer, and BYML files in the wild run to thousands of
// entries per table.
func (st *StringTable) IndexOf(s string) (uint32, bool) {
	i := sort.SearchStrings(st.Strings, s)
	if i < len(st.Strings) && st.Strings[i] == s {
		return uint32(i), true
	}
	return 0, false
}

func sliceAt(data []byte, offset uint32, n int) ([]byte, error) {
	start := uint64(offset)
	end := start + uint64(n)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: read of %d bytes at offset %d exceeds buffer of length %d",
			ErrFormat, n, offset, len(data))
	}
	return data[start:end], nil
}

// readStringTable parses a StringTable container at the given absolute
// offset: tag(1) | count:u24 | offsets:[u32;count+1] | NUL-terminated
// strings, 4-byte aligned.
func readStringTable(data []byte, order binary.ByteOrder, offset uint32) (*StringTable, error) {
	head, err := sliceAt(data, offset, 4)
	if err != nil {
		return nil, err
	}
	if NodeType(head[0]) != TypeStringTable {
		return nil, fmt.Errorf("%w: expected StringTable tag at offset %d, found 0x%02X",
			ErrFormat, offset, head[0])
	}
	count := utils.Uint24(head[1:4], order)

	offsetsBuf, err := sliceAt(data, offset+4, int(count+1)*4)
	if err != nil {
		return nil, err
	}
	relOffsets := make([]uint32, count+1)
	for i := range relOffsets {
		relOffsets[i] = order.Uint32(offsetsBuf[i*4 : i*4+4])
	}

	strs := make([]string, count)
	for i := uint32(0); i < count; i++ {
		strStart := offset + relOffsets[i]
		strEnd := offset + relOffsets[i+1]
		if strEnd < strStart || uint64(strEnd) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: string table entry %d has bad bounds [%d,%d)",
				ErrFormat, i, strStart, strEnd)
		}
		raw := data[strStart:strEnd]
		if nul := bytes.IndexByte(raw, 0); nul >= 0 {
			raw = raw[:nul]
		}
		strs[i] = string(raw)
	}
	return &StringTable{Strings: strs}, nil
}
