// Package core implements the BYML document model and the binary reader.
// The binary writer lives in internal/writer, which imports this package;
// core never imports writer, so the public byml package can re-export types
// from both without an import cycle.
package core

import (
	"fmt"
	"sort"
)

// NodeType is the wire tag byte identifying a Node's variant.
type NodeType uint8

// Wire tag bytes, per the BYML binary layout.
const (
	TypeString      NodeType = 0xA0
	TypeBinary      NodeType = 0xA1
	TypeArray       NodeType = 0xC0
	TypeHash        NodeType = 0xC1
	TypeStringTable NodeType = 0xC2
	TypeBool        NodeType = 0xD0
	TypeInt         NodeType = 0xD1
	TypeFloat       NodeType = 0xD2
	TypeUInt        NodeType = 0xD3
	TypeInt64       NodeType = 0xD4
	TypeUInt64      NodeType = 0xD5
	TypeDouble      NodeType = 0xD6
	TypeNull        NodeType = 0xFF
)

// String returns the tag's name, used in error messages and the text front-end.
func (t NodeType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeBinary:
		return "Binary"
	case TypeArray:
		return "Array"
	case TypeHash:
		return "Hash"
	case TypeStringTable:
		return "StringTable"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeUInt:
		return "UInt"
	case TypeInt64:
		return "Int64"
	case TypeUInt64:
		return "UInt64"
	case TypeDouble:
		return "Double"
	case TypeNull:
		return "Null"
	default:
		return fmt.Sprintf("NodeType(0x%02X)", uint8(t))
	}
}

// ParseNodeType maps a wire tag byte to its NodeType, failing on unknown tags.
func ParseNodeType(tag byte) (NodeType, error) {
	switch NodeType(tag) {
	case TypeString, TypeBinary, TypeArray, TypeHash, TypeStringTable,
		TypeBool, TypeInt, TypeFloat, TypeUInt, TypeInt64, TypeUInt64,
		TypeDouble, TypeNull:
		return NodeType(tag), nil
	default:
		return 0, fmt.Errorf("%w: unknown tag byte 0x%02X", ErrFormat, tag)
	}
}

// IsOffsetType reports whether nodes of this type are serialized out-of-line
// and referenced from their parent's value slot by absolute file offset.
func (t NodeType) IsOffsetType() bool {
	switch t {
	case TypeArray, TypeHash, TypeBinary, TypeInt64, TypeUInt64, TypeDouble:
		return true
	default:
		return false
	}
}

// IsInlineType reports whether nodes of this type fit directly into a
// parent's 4-byte value slot.
func (t NodeType) IsInlineType() bool {
	switch t {
	case TypeBool, TypeInt, TypeUInt, TypeFloat, TypeString:
		return true
	default:
		return false
	}
}

// Node is a BYML document node: a tagged union over the variants in the
// wire format. The zero Node is Null.
type Node struct {
	typ NodeType

	b    bool
	i32  int32
	u32  uint32
	i64  int64
	u64  uint64
	f32  Float
	f64  Double
	str  string
	bin  []byte
	arr  []*Node
	hash map[string]*Node
}

// Type returns the node's variant tag.
func (n *Node) Type() NodeType {
	if n == nil {
		return TypeNull
	}
	return n.typ
}

// Constructors for every variant.

// NewNull returns a Null node.
func NewNull() *Node { return &Node{typ: TypeNull} }

// NewBool returns a Bool node.
func NewBool(v bool) *Node { return &Node{typ: TypeBool, b: v} }

// NewInt returns an Int (32-bit signed) node.
func NewInt(v int32) *Node { return &Node{typ: TypeInt, i32: v} }

// NewUInt returns a UInt (32-bit unsigned) node.
func NewUInt(v uint32) *Node { return &Node{typ: TypeUInt, u32: v} }

// NewFloat returns a Float node carrying the endianness it was produced
// under, per the endian-tagging rule in the document model.
func NewFloat(v float32, endian Endian) *Node {
	return &Node{typ: TypeFloat, f32: NewFloatBits(v, endian)}
}

// NewInt64 returns an Int64 (64-bit signed) node.
func NewInt64(v int64) *Node { return &Node{typ: TypeInt64, i64: v} }

// NewUInt64 returns a UInt64 (64-bit unsigned) node.
func NewUInt64(v uint64) *Node { return &Node{typ: TypeUInt64, u64: v} }

// NewDouble returns a Double node carrying the endianness it was produced
// under, per the endian-tagging rule in the document model.
func NewDouble(v float64, endian Endian) *Node {
	return &Node{typ: TypeDouble, f64: NewDoubleBits(v, endian)}
}

// NewString returns a String node.
func NewString(v string) *Node { return &Node{typ: TypeString, str: v} }

// NewBinary returns a Binary node. The byte slice is retained, not copied.
func NewBinary(v []byte) *Node { return &Node{typ: TypeBinary, bin: v} }

// NewArray returns an Array node. The slice is retained, not copied.
func NewArray(v []*Node) *Node {
	if v == nil {
		v = []*Node{}
	}
	return &Node{typ: TypeArray, arr: v}
}

// NewHash returns a Hash node. The map is retained, not copied.
func NewHash(v map[string]*Node) *Node {
	if v == nil {
		v = map[string]*Node{}
	}
	return &Node{typ: TypeHash, hash: v}
}

// Predicates.

// IsContainer reports whether the node is an Array or Hash.
func (n *Node) IsContainer() bool {
	t := n.Type()
	return t == TypeArray || t == TypeHash
}

// IsInlineValue reports whether the node's wire representation fits in a
// parent's 4-byte value slot (Bool, Int, UInt, Float, String).
func (n *Node) IsInlineValue() bool {
	return n.Type().IsInlineType()
}

// IsString reports whether the node is a String leaf.
func (n *Node) IsString() bool {
	return n.Type() == TypeString
}

// IsNull reports whether the node is Null.
func (n *Node) IsNull() bool {
	return n.Type() == TypeNull
}

// TypeMismatchError is returned by type-narrowing accessors invoked on a
// node of the wrong variant.
type TypeMismatchError struct {
	Want NodeType
	Have NodeType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s, found %s", ErrType, e.Want, e.Have)
}

// Unwrap lets errors.Is(err, ErrType) succeed for TypeMismatchError values.
func (e *TypeMismatchError) Unwrap() error { return ErrType }

func mismatch(want NodeType, n *Node) error {
	return &TypeMismatchError{Want: want, Have: n.Type()}
}

// Type-narrowing accessors. Each returns the payload or a *TypeMismatchError.

// AsBool returns the node's boolean payload.
func (n *Node) AsBool() (bool, error) {
	if n.Type() != TypeBool {
		return false, mismatch(TypeBool, n)
	}
	return n.b, nil
}

// AsInt returns the node's 32-bit signed payload.
func (n *Node) AsInt() (int32, error) {
	if n.Type() != TypeInt {
		return 0, mismatch(TypeInt, n)
	}
	return n.i32, nil
}

// AsUInt returns the node's 32-bit unsigned payload.
func (n *Node) AsUInt() (uint32, error) {
	if n.Type() != TypeUInt {
		return 0, mismatch(TypeUInt, n)
	}
	return n.u32, nil
}

// AsFloat decodes the node's 32-bit float payload using the endianness it
// was tagged with at parse (or construction) time.
func (n *Node) AsFloat() (float32, error) {
	if n.Type() != TypeFloat {
		return 0, mismatch(TypeFloat, n)
	}
	return n.f32.Decode(), nil
}

// AsInt64 returns the node's 64-bit signed payload.
func (n *Node) AsInt64() (int64, error) {
	if n.Type() != TypeInt64 {
		return 0, mismatch(TypeInt64, n)
	}
	return n.i64, nil
}

// AsUInt64 returns the node's 64-bit unsigned payload.
func (n *Node) AsUInt64() (uint64, error) {
	if n.Type() != TypeUInt64 {
		return 0, mismatch(TypeUInt64, n)
	}
	return n.u64, nil
}

// AsDouble decodes the node's 64-bit float payload using the endianness it
// was tagged with at parse (or construction) time.
func (n *Node) AsDouble() (float64, error) {
	if n.Type() != TypeDouble {
		return 0, mismatch(TypeDouble, n)
	}
	return n.f64.Decode(), nil
}

// AsString returns the node's string payload.
func (n *Node) AsString() (string, error) {
	if n.Type() != TypeString {
		return "", mismatch(TypeString, n)
	}
	return n.str, nil
}

// AsBinary returns the node's byte payload. The returned slice is shared
// with the node; callers must not mutate it.
func (n *Node) AsBinary() ([]byte, error) {
	if n.Type() != TypeBinary {
		return nil, mismatch(TypeBinary, n)
	}
	return n.bin, nil
}

// AsArray returns the node's child slice. The returned slice is shared with
// the node; callers must not mutate it.
func (n *Node) AsArray() ([]*Node, error) {
	if n.Type() != TypeArray {
		return nil, mismatch(TypeArray, n)
	}
	return n.arr, nil
}

// AsHash returns the node's key-to-child map. The returned map is shared
// with the node; callers must not mutate it.
func (n *Node) AsHash() (map[string]*Node, error) {
	if n.Type() != TypeHash {
		return nil, mismatch(TypeHash, n)
	}
	return n.hash, nil
}

// At returns the i'th element of an Array node.
func (n *Node) At(i int) (*Node, error) {
	arr, err := n.AsArray()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(arr) {
		return nil, fmt.Errorf("%w: array index %d out of range [0,%d)", ErrIndex, i, len(arr))
	}
	return arr[i], nil
}

// Index returns the child of a Hash node stored under key.
func (n *Node) Index(key string) (*Node, error) {
	h, err := n.AsHash()
	if err != nil {
		return nil, err
	}
	child, ok := h[key]
	if !ok {
		return nil, fmt.Errorf("%w: no hash entry for key %q", ErrIndex, key)
	}
	return child, nil
}

// Keys returns a Hash node's keys in the canonical byte-lexicographic order
// that the wire format requires. It is an error to call this on a non-Hash
// node.
func (n *Node) Keys() ([]string, error) {
	h, err := n.AsHash()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Pairs returns a Hash node's entries ordered per Keys.
func (n *Node) Pairs() ([]string, []*Node, error) {
	keys, err := n.Keys()
	if err != nil {
		return nil, nil, err
	}
	vals := make([]*Node, len(keys))
	for i, k := range keys {
		vals[i] = n.hash[k]
	}
	return keys, vals, nil
}

// Equal reports whether two nodes are value-equal. Float/Double nodes are
// compared by their decoded numeric value, not by bit pattern and endian
// tag, so a node re-encoded under a different endianness still compares
// equal to its source. Containers compare structurally: Array element-wise
// in order, Hash by key set and value equality regardless of map iteration
// order.
func Equal(a, b *Node) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case TypeNull:
		return true
	case TypeBool:
		return a.b == b.b
	case TypeInt:
		return a.i32 == b.i32
	case TypeUInt:
		return a.u32 == b.u32
	case TypeFloat:
		return a.f32.Decode() == b.f32.Decode()
	case TypeInt64:
		return a.i64 == b.i64
	case TypeUInt64:
		return a.u64 == b.u64
	case TypeDouble:
		return a.f64.Decode() == b.f64.Decode()
	case TypeString:
		return a.str == b.str
	case TypeBinary:
		if len(a.bin) != len(b.bin) {
			return false
		}
		for i := range a.bin {
			if a.bin[i] != b.bin[i] {
				return false
			}
		}
		return true
	case TypeArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case TypeHash:
		if len(a.hash) != len(b.hash) {
			return false
		}
		for k, av := range a.hash {
			bv, ok := b.hash[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
