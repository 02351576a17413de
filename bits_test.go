package gunzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReaderLSBFirst(t *testing.T) {
	var br bitReader
	br.setInput([]byte{0xb5, 0x01}) // 1011 0101, 0000 0001

	require.True(t, br.ensure(3))
	assert.Equal(t, uint32(0x5), br.read(3))
	assert.Equal(t, uint(5), br.buffered())

	require.True(t, br.ensure(6))
	assert.Equal(t, uint32(0x36), br.read(6)) // 10110 from the first byte, 1 from the second
	assert.False(t, br.ensure(16))
}

func TestBitReaderResumesAcrossInputs(t *testing.T) {
	var br bitReader
	br.setInput([]byte{0xff})
	require.False(t, br.ensure(12))
	assert.Equal(t, uint(8), br.buffered(), "partial refill keeps the loaded byte")
	br.release()

	br.setInput([]byte{0x0a})
	require.True(t, br.ensure(12))
	assert.Equal(t, uint32(0xaff), br.read(12))
	assert.Equal(t, 0, br.remaining())
}

func TestBitReaderAlignKeepsWholeBytes(t *testing.T) {
	var br bitReader
	br.setInput([]byte{0x07, 0x34, 0x12, 0x99})
	require.True(t, br.ensure(24))
	br.read(3)
	br.alignToByte()
	assert.Equal(t, uint(16), br.buffered())

	b, ok := br.readByte()
	require.True(t, ok)
	assert.Equal(t, byte(0x34), b)
	b, ok = br.readByte()
	require.True(t, ok)
	assert.Equal(t, byte(0x12), b)
	assert.Equal(t, []byte{0x99}, br.readBytes(10))
	_, ok = br.readByte()
	assert.False(t, ok)
}

func TestBitReaderReadZero(t *testing.T) {
	var br bitReader
	require.True(t, br.ensure(0))
	assert.Equal(t, uint32(0), br.read(0))
}
