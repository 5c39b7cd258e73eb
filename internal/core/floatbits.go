package core

import "math"

// Endian selects the byte order used to read or write a BYML document.
// It is distinct from encoding/binary.ByteOrder because it also selects the
// two-byte magic at the start of the header.
type Endian int

const (
	// LittleEndian corresponds to magic "YB".
	LittleEndian Endian = iota
	// BigEndian corresponds to magic "BY".
	BigEndian
)

// String returns "little" or "big".
func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// Float is a 32-bit float leaf that retains the raw bits and the
// endianness it was parsed (or constructed) under, so that two documents
// decoded under different endianness still compare equal by numeric value
// (see Equal) while preserving the original bit pattern for anyone who
// inspects it directly.
type Float struct {
	bits   uint32
	endian Endian
}

// NewFloatBits packs v into a Float tagged with endian.
func NewFloatBits(v float32, endian Endian) Float {
	return Float{bits: math.Float32bits(v), endian: endian}
}

// RawFloatBits constructs a Float from already-decoded wire bits, tagged
// with the endianness they were read under.
func RawFloatBits(bits uint32, endian Endian) Float {
	return Float{bits: bits, endian: endian}
}

// Bits returns the raw 32-bit pattern as stored (i.e. native host order,
// regardless of the tagged endianness -- the endian tag only matters when
// the bits are written back out to the wire).
func (f Float) Bits() uint32 { return f.bits }

// Endian returns the endianness this value was tagged with.
func (f Float) Endian() Endian { return f.endian }

// Decode returns the numeric value.
func (f Float) Decode() float32 { return math.Float32frombits(f.bits) }

// Double is the 64-bit analogue of Float.
type Double struct {
	bits   uint64
	endian Endian
}

// NewDoubleBits packs v into a Double tagged with endian.
func NewDoubleBits(v float64, endian Endian) Double {
	return Double{bits: math.Float64bits(v), endian: endian}
}

// RawDoubleBits constructs a Double from already-decoded wire bits, tagged
// with the endianness they were read under.
func RawDoubleBits(bits uint64, endian Endian) Double {
	return Double{bits: bits, endian: endian}
}

// Bits returns the raw 64-bit pattern, see Float.Bits.
func (d Double) Bits() uint64 { return d.bits }

// Endian returns the endianness this value was tagged with.
func (d Double) Endian() Endian { return d.endian }

// Decode returns the numeric value.
func (d Double) Decode() float64 { return math.Float64frombits(d.bits) }
