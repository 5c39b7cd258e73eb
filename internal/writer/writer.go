// Package writer implements the BYML binary writer: the hardest component
// of the codec, per the design notes, because it has to juggle layout,
// 4-byte alignment, shared-subtree deduplication, and two-pass offset
// resolution at once.
package writer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/scigolib/byml/internal/core"
	"github.com/scigolib/byml/internal/intern"
	"github.com/scigolib/byml/internal/utils"
)

// Options configures the writer's behavior. The zero Options is the default
// (deduplication on).
type Options struct {
	dedup bool
}

// Option configures an Options value, following the functional-options
// pattern.
type Option func(*Options)

// WithDedup enables or disables shared-subtree deduplication. It defaults
// to enabled; disabling it is mainly useful for producing output that
// mirrors a tree's literal shape (e.g. to compare against an un-deduplicated
// reference encoder).
func WithDedup(enabled bool) Option {
	return func(o *Options) { o.dedup = enabled }
}

func defaultOptions() Options {
	return Options{dedup: true}
}

// Encode serializes doc into the BYML wire format. Only Array, Hash, or
// Null nodes may be used as the root.
func Encode(doc *core.Node, endian core.Endian, version uint16, opts ...Option) ([]byte, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(&cfg)
	}

	if doc.Type() != core.TypeArray && doc.Type() != core.TypeHash && doc.Type() != core.TypeNull {
		return nil, fmt.Errorf("%w: root node must be Array, Hash, or Null, found %s", core.ErrType, doc.Type())
	}
	if err := core.ValidateVersion(version); err != nil {
		return nil, err
	}

	keys := intern.CollectKeys(doc)
	vals := intern.CollectValues(doc)

	e := newEmitter(endian, cfg)

	e.reserve(core.HeaderSize)

	var hashOff, strOff, rootOff uint32
	if len(keys.Strings) > 0 {
		hashOff = e.pos()
		e.writeStringTable(keys)
		e.alignCursor()
	}
	if len(vals.Strings) > 0 {
		strOff = e.pos()
		e.writeStringTable(vals)
		e.alignCursor()
	}
	if doc.Type() != core.TypeNull {
		rootOff = e.pos()
		if _, _, err := e.writeOffsetNode(doc, keys, vals); err != nil {
			return nil, err
		}
	}

	e.patchHeader(version, hashOff, strOff, rootOff)
	return e.buf, nil
}

// emitter accumulates the output buffer and the shared-subtree
// deduplication table. It owns three pieces of mutable state: the (already
// read-only by this point) interned tables are passed in per call, and the
// emitted-node map below is the only state that changes during emission.
type emitter struct {
	buf    []byte
	endian core.Endian
	order  binary.ByteOrder
	opts   Options

	// seen maps a content hash to the set of (node, offset) pairs already
	// emitted under that hash. A slice, not a single entry, because the
	// hash is not cryptographic: two unequal nodes can collide, and a
	// reused offset must only ever be handed out after an actual equality
	// check, never on a bare hash hit.
	seen map[uint64][]seenNode
}

type seenNode struct {
	node   *core.Node
	offset uint32
}

func newEmitter(endian core.Endian, opts Options) *emitter {
	return &emitter{
		endian: endian,
		order:  endian.ByteOrder(),
		opts:   opts,
		seen:   make(map[uint64][]seenNode),
	}
}

func (e *emitter) pos() uint32 { return uint32(len(e.buf)) }

// reserve grows the buffer by n zero bytes and returns the start offset, to
// be patched in later once the value being reserved for is known (the
// two-pass trick the header, the hash-entry table, and the array
// tag/slot regions all rely on).
func (e *emitter) reserve(n int) uint32 {
	start := e.pos()
	e.buf = append(e.buf, make([]byte, n)...)
	return start
}

func (e *emitter) appendByte(b byte) { e.buf = append(e.buf, b) }

func (e *emitter) appendBytes(b []byte) { e.buf = append(e.buf, b...) }

func (e *emitter) appendU24(v uint32) {
	var b [3]byte
	utils.PutUint24(b[:], v, e.order)
	e.appendBytes(b[:])
}

func (e *emitter) appendU32(v uint32) {
	var b [4]byte
	e.order.PutUint32(b[:], v)
	e.appendBytes(b[:])
}

func (e *emitter) appendU64(v uint64) {
	var b [8]byte
	e.order.PutUint64(b[:], v)
	e.appendBytes(b[:])
}

func (e *emitter) patchAt(offset uint32, data []byte) {
	copy(e.buf[offset:offset+uint32(len(data))], data)
}

func (e *emitter) patchU32(offset uint32, v uint32) {
	var b [4]byte
	e.order.PutUint32(b[:], v)
	e.patchAt(offset, b[:])
}

// alignCursor pads the buffer with zero bytes so the next write begins at a
// 4-byte-aligned offset. Every offset-node body ends with this call (or an
// equivalent no-op when already aligned): skipping it is the single most
// common source of corrupted BYML output.
func (e *emitter) alignCursor() {
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
}

func (e *emitter) patchHeader(version uint16, hashOff, strOff, rootOff uint32) {
	magic := core.Magic(e.endian)
	e.buf[0], e.buf[1] = magic[0], magic[1]
	e.order.PutUint16(e.buf[2:4], version)
	e.order.PutUint32(e.buf[4:8], hashOff)
	e.order.PutUint32(e.buf[8:12], strOff)
	e.order.PutUint32(e.buf[12:16], rootOff)
}

func (e *emitter) writeStringTable(st *core.StringTable) {
	e.appendByte(byte(core.TypeStringTable))
	e.appendU24(uint32(len(st.Strings)))
	for _, off := range stringTableOffsets(st.Strings) {
		e.appendU32(off)
	}
	for _, s := range st.Strings {
		e.appendBytes([]byte(s))
		e.appendByte(0)
		e.alignCursor()
	}
}

// stringTableOffsets computes the relative (to the table start) byte
// offset of each string, including the trailing end-of-last-string
// sentinel, per the wire layout: tag(1) + count(3) + (n+1) offsets(4 each),
// then each NUL-terminated string padded to a 4-byte boundary.
func stringTableOffsets(strings []string) []uint32 {
	offsets := make([]uint32, 0, len(strings)+1)
	pos := uint32(4 + (len(strings)+1)*4)
	for _, s := range strings {
		offsets = append(offsets, pos)
		pos += uint32(len(s)) + 1
		pos = align4(pos)
	}
	offsets = append(offsets, pos)
	return offsets
}

func align4(pos uint32) uint32 { return (pos + 3) &^ 3 }

// writeOffsetNode emits n's out-of-line body, reusing a prior offset if an
// equal node has already been emitted. wasNew reports whether new bytes
// were written (so callers know whether to realign afterward).
func (e *emitter) writeOffsetNode(n *core.Node, keys, vals *core.StringTable) (offset uint32, wasNew bool, err error) {
	h := contentHash(n)
	if e.opts.dedup {
		for _, cand := range e.seen[h] {
			if core.Equal(cand.node, n) {
				return cand.offset, false, nil
			}
		}
	}

	start := e.pos()
	switch n.Type() {
	case core.TypeHash:
		err = e.writeHash(n, keys, vals)
	case core.TypeArray:
		err = e.writeArray(n, keys, vals)
	case core.TypeBinary:
		b, _ := n.AsBinary()
		e.appendByte(byte(core.TypeBinary))
		e.appendU32(uint32(len(b)))
		e.appendBytes(b)
	case core.TypeInt64:
		v, _ := n.AsInt64()
		e.appendByte(byte(core.TypeInt64))
		e.appendU64(uint64(v))
	case core.TypeUInt64:
		v, _ := n.AsUInt64()
		e.appendByte(byte(core.TypeUInt64))
		e.appendU64(v)
	case core.TypeDouble:
		v, _ := n.AsDouble()
		e.appendByte(byte(core.TypeDouble))
		e.appendU64(math.Float64bits(v))
	default:
		return 0, false, fmt.Errorf("%w: node %s is not a valid offset node", core.ErrType, n.Type())
	}
	if err != nil {
		return 0, false, err
	}

	if e.opts.dedup {
		e.seen[h] = append(e.seen[h], seenNode{node: n, offset: start})
	}
	return start, true, nil
}

func (e *emitter) writeArray(n *core.Node, keys, vals *core.StringTable) error {
	arr, _ := n.AsArray()
	count := len(arr)

	e.appendByte(byte(core.TypeArray))
	e.appendU24(uint32(count))
	for _, c := range arr {
		e.appendByte(byte(c.Type()))
	}
	e.alignCursor()

	slotsStart := e.reserve(count * 4)
	for i, c := range arr {
		slot, err := e.childSlot(c, keys, vals)
		if err != nil {
			return err
		}
		e.patchU32(slotsStart+uint32(i)*4, slot)
	}
	return nil
}

func (e *emitter) writeHash(n *core.Node, keys, vals *core.StringTable) error {
	hKeys, hVals, err := n.Pairs()
	if err != nil {
		return err
	}
	count := len(hKeys)

	e.appendByte(byte(core.TypeHash))
	e.appendU24(uint32(count))
	entriesStart := e.reserve(count * 8)

	for i, k := range hKeys {
		idx, ok := keys.IndexOf(k)
		if !ok {
			return fmt.Errorf("%w: key %q missing from interned key table", core.ErrIndex, k)
		}
		child := hVals[i]
		slot, err := e.childSlot(child, keys, vals)
		if err != nil {
			return err
		}

		entry := make([]byte, 8)
		utils.PutUint24(entry[0:3], idx, e.order)
		entry[3] = byte(child.Type())
		e.order.PutUint32(entry[4:8], slot)
		e.patchAt(entriesStart+uint32(i)*8, entry)
	}
	return nil
}

// childSlot resolves the 4-byte value slot for a parent's entry: for
// offset-kind children it recurses (and deduplicates), for inline-kind
// children it encodes the value (or values-table index) directly.
func (e *emitter) childSlot(child *core.Node, keys, vals *core.StringTable) (uint32, error) {
	if child.Type().IsOffsetType() {
		off, wasNew, err := e.writeOffsetNode(child, keys, vals)
		if err != nil {
			return 0, err
		}
		if wasNew {
			e.alignCursor()
		}
		return off, nil
	}
	return inlineSlotValue(child, vals)
}

func inlineSlotValue(n *core.Node, vals *core.StringTable) (uint32, error) {
	switch n.Type() {
	case core.TypeNull:
		return 0, nil
	case core.TypeBool:
		b, _ := n.AsBool()
		if b {
			return 1, nil
		}
		return 0, nil
	case core.TypeInt:
		v, _ := n.AsInt()
		return uint32(v), nil
	case core.TypeUInt:
		v, _ := n.AsUInt()
		return v, nil
	case core.TypeFloat:
		v, _ := n.AsFloat()
		return math.Float32bits(v), nil
	case core.TypeString:
		s, _ := n.AsString()
		idx, ok := vals.IndexOf(s)
		if !ok {
			return 0, fmt.Errorf("%w: string %q missing from interned value table", core.ErrIndex, s)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("%w: node %s is not a valid inline value", core.ErrType, n.Type())
	}
}

// contentHash computes a deterministic hash over a node's variant tag, its
// scalar payload, and (recursively) its children's hashes. Equal nodes
// always collide; unequal nodes are not guaranteed not to (the dedup table
// verifies with a real equality check on every hit), so any deterministic
// hash function satisfies the contract -- xxhash64 is simply fast.
func contentHash(n *core.Node) uint64 {
	d := xxhash.New()
	hashInto(d, n)
	return d.Sum64()
}

func hashInto(d *xxhash.Digest, n *core.Node) {
	_, _ = d.Write([]byte{byte(n.Type())})
	switch n.Type() {
	case core.TypeNull:
	case core.TypeBool:
		b, _ := n.AsBool()
		if b {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case core.TypeInt:
		v, _ := n.AsInt()
		hashUint32(d, uint32(v))
	case core.TypeUInt:
		v, _ := n.AsUInt()
		hashUint32(d, v)
	case core.TypeFloat:
		v, _ := n.AsFloat()
		hashUint32(d, math.Float32bits(v))
	case core.TypeInt64:
		v, _ := n.AsInt64()
		hashUint64(d, uint64(v))
	case core.TypeUInt64:
		v, _ := n.AsUInt64()
		hashUint64(d, v)
	case core.TypeDouble:
		v, _ := n.AsDouble()
		hashUint64(d, math.Float64bits(v))
	case core.TypeString:
		s, _ := n.AsString()
		_, _ = d.Write([]byte(s))
	case core.TypeBinary:
		b, _ := n.AsBinary()
		_, _ = d.Write(b)
	case core.TypeArray:
		arr, _ := n.AsArray()
		hashUint32(d, uint32(len(arr)))
		for _, c := range arr {
			hashInto(d, c)
		}
	case core.TypeHash:
		keys, vals, _ := n.Pairs()
		hashUint32(d, uint32(len(keys)))
		for i, k := range keys {
			_, _ = d.Write([]byte(k))
			hashInto(d, vals[i])
		}
	}
}

func hashUint32(d *xxhash.Digest, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, _ = d.Write(b[:])
}

func hashUint64(d *xxhash.Digest, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = d.Write(b[:])
}
