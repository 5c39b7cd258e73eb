package core

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of the BYML file header.
const HeaderSize = 16

// MinVersion and MaxVersion bound the supported wire versions.
const (
	MinVersion = 2
	MaxVersion = 4
)

// Header is the 16-byte BYML file header.
type Header struct {
	Endian       Endian
	Version      uint16
	HashTableOff uint32 // 0 if the key table is absent.
	StrTableOff  uint32 // 0 if the value string table is absent.
	RootNodeOff  uint32 // 0 if the root is Null.
}

// ValidateVersion reports whether version is one of the supported wire
// versions (2, 3, or 4).
func ValidateVersion(version uint16) error {
	if version < MinVersion || version > MaxVersion {
		return fmt.Errorf("%w: unsupported version %d, expected %d-%d",
			ErrFormat, version, MinVersion, MaxVersion)
	}
	return nil
}

// Magic returns the two-byte magic for endian.
func Magic(endian Endian) [2]byte {
	if endian == BigEndian {
		return [2]byte{'B', 'Y'}
	}
	return [2]byte{'Y', 'B'}
}

// EndianFromMagic infers the byte order from the header's first two bytes,
// per the reader's peek-the-magic step.
func EndianFromMagic(magic [2]byte) (Endian, error) {
	switch {
	case magic == [2]byte{'B', 'Y'}:
		return BigEndian, nil
	case magic == [2]byte{'Y', 'B'}:
		return LittleEndian, nil
	default:
		return 0, fmt.Errorf("%w: bad magic %q", ErrFormat, string(magic[:]))
	}
}

// ByteOrder returns the encoding/binary.ByteOrder matching endian.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
