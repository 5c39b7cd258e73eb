package core

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/byml/internal/utils"
)

// Decode parses a BYML document from an in-memory buffer. It never mutates
// data and never returns a partial tree: any structural violation is fatal
// and data is discarded along with the (partially built) result.
func Decode(data []byte) (*Node, error) {
	hdr, keys, strs, err := decodeHeader(data)
	if err != nil {
		return nil, utils.WrapError("decoding BYML", err)
	}
	if hdr.RootNodeOff == 0 {
		return NewNull(), nil
	}

	order := hdr.Endian.ByteOrder()
	root, err := parseOffsetNode(data, hdr.Endian, order, keys, strs, hdr.RootNodeOff, map[uint32]bool{})
	if err != nil {
		return nil, utils.WrapError("decoding BYML", err)
	}
	if root.Type() != TypeArray && root.Type() != TypeHash {
		return nil, utils.WrapError("decoding BYML", fmt.Errorf("%w: root node must be Array or Hash, found %s", ErrFormat, root.Type()))
	}
	return root, nil
}

func decodeHeader(data []byte) (Header, *StringTable, *StringTable, error) {
	head, err := sliceAt(data, 0, HeaderSize)
	if err != nil {
		return Header{}, nil, nil, fmt.Errorf("%w: buffer shorter than the %d-byte header", ErrFormat, HeaderSize)
	}

	endian, err := EndianFromMagic([2]byte{head[0], head[1]})
	if err != nil {
		return Header{}, nil, nil, err
	}
	order := endian.ByteOrder()

	version := order.Uint16(head[2:4])
	if err := ValidateVersion(version); err != nil {
		return Header{}, nil, nil, err
	}

	hdr := Header{
		Endian:       endian,
		Version:      version,
		HashTableOff: order.Uint32(head[4:8]),
		StrTableOff:  order.Uint32(head[8:12]),
		RootNodeOff:  order.Uint32(head[12:16]),
	}

	var keys, strs *StringTable
	if hdr.HashTableOff != 0 {
		keys, err = readStringTable(data, order, hdr.HashTableOff)
		if err != nil {
			return Header{}, nil, nil, err
		}
	}
	if hdr.StrTableOff != 0 {
		strs, err = readStringTable(data, order, hdr.StrTableOff)
		if err != nil {
			return Header{}, nil, nil, err
		}
	}
	return hdr, keys, strs, nil
}

// parseOffsetNode parses the node whose body begins at the given absolute
// offset. visiting guards against a cyclic offset graph (which the writer
// never produces, but a crafted or corrupted file might): the same offset
// may legitimately be visited twice by two different parents (shared
// subtrees), but never while still being parsed by an ancestor.
func parseOffsetNode(
	data []byte, endian Endian, order binary.ByteOrder,
	keys, strs *StringTable, offset uint32, visiting map[uint32]bool,
) (*Node, error) {
	if visiting[offset] {
		return nil, fmt.Errorf("%w: cyclic offset reference at %d", ErrFormat, offset)
	}
	visiting[offset] = true
	defer delete(visiting, offset)

	tagByte, err := sliceAt(data, offset, 1)
	if err != nil {
		return nil, err
	}
	tag, err := ParseNodeType(tagByte[0])
	if err != nil {
		return nil, err
	}

	switch tag {
	case TypeNull:
		return NewNull(), nil
	case TypeArray:
		return parseArray(data, endian, order, keys, strs, offset, visiting)
	case TypeHash:
		return parseHash(data, endian, order, keys, strs, offset, visiting)
	case TypeBinary:
		lenBuf, err := sliceAt(data, offset+1, 4)
		if err != nil {
			return nil, err
		}
		n := order.Uint32(lenBuf)
		body, err := sliceAt(data, offset+5, int(n))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, n)
		copy(cp, body)
		return NewBinary(cp), nil
	case TypeInt64:
		buf, err := sliceAt(data, offset+1, 8)
		if err != nil {
			return nil, err
		}
		return NewInt64(int64(order.Uint64(buf))), nil
	case TypeUInt64:
		buf, err := sliceAt(data, offset+1, 8)
		if err != nil {
			return nil, err
		}
		return NewUInt64(order.Uint64(buf)), nil
	case TypeDouble:
		buf, err := sliceAt(data, offset+1, 8)
		if err != nil {
			return nil, err
		}
		return &Node{typ: TypeDouble, f64: RawDoubleBits(order.Uint64(buf), endian)}, nil
	default:
		return nil, fmt.Errorf("%w: tag %s is not a valid offset node", ErrFormat, tag)
	}
}

func align4(pos uint32) uint32 {
	return (pos + 3) &^ 3
}

func parseInlineValue(
	tag NodeType, endian Endian, slot uint32, strs *StringTable,
) (*Node, error) {
	switch tag {
	case TypeNull:
		return NewNull(), nil
	case TypeBool:
		return NewBool(slot != 0), nil
	case TypeInt:
		return NewInt(int32(slot)), nil
	case TypeUInt:
		return NewUInt(slot), nil
	case TypeFloat:
		return &Node{typ: TypeFloat, f32: RawFloatBits(slot, endian)}, nil
	case TypeString:
		s, err := strs.Get(slot)
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	default:
		return nil, fmt.Errorf("%w: tag %s is not a valid inline value", ErrFormat, tag)
	}
}

func parseArray(
	data []byte, endian Endian, order binary.ByteOrder,
	keys, strs *StringTable, offset uint32, visiting map[uint32]bool,
) (*Node, error) {
	ctx := fmt.Sprintf("parsing array at offset %d", offset)

	countBuf, err := sliceAt(data, offset+1, 3)
	if err != nil {
		return nil, utils.WrapError(ctx, err)
	}
	count := utils.Uint24(countBuf, order)

	tagBytes, err := sliceAt(data, offset+4, int(count))
	if err != nil {
		return nil, utils.WrapError(ctx, err)
	}
	tags := make([]NodeType, count)
	for i, b := range tagBytes {
		t, err := ParseNodeType(b)
		if err != nil {
			return nil, utils.WrapError(ctx, err)
		}
		tags[i] = t
	}

	slotsStart := align4(offset + 4 + count)
	slotsBuf, err := sliceAt(data, slotsStart, int(count)*4)
	if err != nil {
		return nil, utils.WrapError(ctx, err)
	}

	children := make([]*Node, count)
	for i := uint32(0); i < count; i++ {
		slot := order.Uint32(slotsBuf[i*4 : i*4+4])
		t := tags[i]
		var child *Node
		if t.IsOffsetType() {
			child, err = parseOffsetNode(data, endian, order, keys, strs, slot, visiting)
		} else {
			child, err = parseInlineValue(t, endian, slot, strs)
		}
		if err != nil {
			return nil, utils.WrapError(ctx, err)
		}
		children[i] = child
	}
	return NewArray(children), nil
}

func parseHash(
	data []byte, endian Endian, order binary.ByteOrder,
	keys, strs *StringTable, offset uint32, visiting map[uint32]bool,
) (*Node, error) {
	ctx := fmt.Sprintf("parsing hash at offset %d", offset)

	countBuf, err := sliceAt(data, offset+1, 3)
	if err != nil {
		return nil, utils.WrapError(ctx, err)
	}
	count := utils.Uint24(countBuf, order)

	entries, err := sliceAt(data, offset+4, int(count)*8)
	if err != nil {
		return nil, utils.WrapError(ctx, err)
	}

	h := make(map[string]*Node, count)
	var prevIdx int64 = -1
	for i := uint32(0); i < count; i++ {
		e := entries[i*8 : i*8+8]
		keyIdx := utils.Uint24(e[0:3], order)
		if int64(keyIdx) <= prevIdx {
			return nil, utils.WrapError(ctx, fmt.Errorf("%w: hash entry %d key index %d is not strictly increasing", ErrFormat, i, keyIdx))
		}
		prevIdx = int64(keyIdx)

		tag, err := ParseNodeType(e[3])
		if err != nil {
			return nil, utils.WrapError(ctx, err)
		}
		slot := order.Uint32(e[4:8])

		key, err := keys.Get(keyIdx)
		if err != nil {
			return nil, utils.WrapError(ctx, err)
		}

		var child *Node
		if tag.IsOffsetType() {
			child, err = parseOffsetNode(data, endian, order, keys, strs, slot, visiting)
		} else {
			child, err = parseInlineValue(tag, endian, slot, strs)
		}
		if err != nil {
			return nil, utils.WrapError(ctx, err)
		}
		h[key] = child
	}
	return NewHash(h), nil
}
