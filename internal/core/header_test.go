package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVersion(t *testing.T) {
	for v := uint16(MinVersion); v <= MaxVersion; v++ {
		assert.NoError(t, ValidateVersion(v))
	}
	assert.Error(t, ValidateVersion(1))
	assert.Error(t, ValidateVersion(5))
}

func TestMagicRoundTrip(t *testing.T) {
	for _, e := range []Endian{LittleEndian, BigEndian} {
		magic := Magic(e)
		got, err := EndianFromMagic(magic)
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestEndianFromMagic_Bad(t *testing.T) {
	_, err := EndianFromMagic([2]byte{'x', 'y'})
	require.Error(t, err)
}
