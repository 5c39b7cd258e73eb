package utils

import "encoding/binary"

// Uint24 decodes a 24-bit unsigned integer from the first three bytes of buf
// in the given byte order. BYML packs counts and string-table indices into
// three bytes; encoding/binary has no native width for that.
func Uint24(buf []byte, order binary.ByteOrder) uint32 {
	_ = buf[2] // bounds check hint
	switch order {
	case binary.BigEndian:
		return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
	default:
		return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
	}
}

// PutUint24 encodes the low 24 bits of v into the first three bytes of buf in
// the given byte order. The top byte of v is ignored by callers, who must
// ensure v fits in 24 bits.
func PutUint24(buf []byte, v uint32, order binary.ByteOrder) {
	_ = buf[2] // bounds check hint
	switch order {
	case binary.BigEndian:
		buf[0] = byte(v >> 16)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v)
	default:
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
	}
}
