// Package byml provides a pure Go implementation of BYML ("Binary YAML"),
// a tagged, tree-shaped binary document format used by certain commercial
// game titles to store structured configuration and asset metadata. It
// supports wire versions 2, 3, and 4, in either byte order, and offers a
// YAML-flavored text front-end (see the yaml subpackage) for hand-editing
// and diffing.
package byml

import (
	"github.com/scigolib/byml/internal/core"
	"github.com/scigolib/byml/internal/writer"
)

// Node is a BYML document node. The zero Node is Null; use the New*
// constructors to build documents, and the As* accessors to read them back.
type Node = core.Node

// NodeType identifies a Node's wire variant.
type NodeType = core.NodeType

// Endian selects the byte order a document is read or written under.
type Endian = core.Endian

const (
	LittleEndian = core.LittleEndian
	BigEndian    = core.BigEndian
)

// Node variant tags, re-exported for callers that need to branch on Type().
const (
	TypeNull        = core.TypeNull
	TypeBool        = core.TypeBool
	TypeInt         = core.TypeInt
	TypeUInt        = core.TypeUInt
	TypeFloat       = core.TypeFloat
	TypeInt64       = core.TypeInt64
	TypeUInt64      = core.TypeUInt64
	TypeDouble      = core.TypeDouble
	TypeString      = core.TypeString
	TypeBinary      = core.TypeBinary
	TypeArray       = core.TypeArray
	TypeHash        = core.TypeHash
	TypeStringTable = core.TypeStringTable
)

// Constructors, forwarded from the document model.
var (
	NewNull   = core.NewNull
	NewBool   = core.NewBool
	NewInt    = core.NewInt
	NewUInt   = core.NewUInt
	NewFloat  = core.NewFloat
	NewInt64  = core.NewInt64
	NewUInt64 = core.NewUInt64
	NewDouble = core.NewDouble
	NewString = core.NewString
	NewBinary = core.NewBinary
	NewArray  = core.NewArray
	NewHash   = core.NewHash
)

// Equal reports whether two documents are value-equal; see core.Equal.
func Equal(a, b *Node) bool { return core.Equal(a, b) }

// Decode parses a BYML document from an in-memory buffer.
func Decode(data []byte) (*Node, error) {
	return core.Decode(data)
}

// EncodeOption configures Encode's behavior.
type EncodeOption = writer.Option

// WithDedup enables or disables shared-subtree deduplication on encode. It
// defaults to enabled.
func WithDedup(enabled bool) EncodeOption { return writer.WithDedup(enabled) }

// Encode serializes doc to the BYML wire format under the given byte order
// and wire version (one of 2, 3, or 4). Only Array, Hash, or Null nodes may
// be used as the root.
func Encode(doc *Node, endian Endian, version uint16, opts ...EncodeOption) ([]byte, error) {
	return writer.Encode(doc, endian, version, opts...)
}
