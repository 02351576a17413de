package gunzip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullHeader has every optional field set.
func fullHeader() []byte {
	hdr := []byte{
		gzipID1, gzipID2, gzipDeflate,
		flagText | flagHdrCrc | flagExtra | flagName | flagComment,
		0x00, 0x5e, 0x0b, 0x5c, // mtime 1544248832
		0x02, 0x03,
	}
	hdr = append(hdr, 0x04, 0x00, 'A', 'B', 0x02, 0x00) // extra
	hdr = append(hdr, []byte("name.txt\x00")...)
	hdr = append(hdr, []byte("a comment\x00")...)
	return append(hdr, 0xaa, 0xbb) // header crc
}

func TestHeaderAllFields(t *testing.T) {
	var p headerParser
	var br bitReader
	hdr := fullHeader()
	br.setInput(append(hdr, 0x99))

	ok, err := p.parse(&br)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, len(hdr), br.pos, "parser stops at the first deflate byte")

	assert.Equal(t, "name.txt", p.hdr.Name)
	assert.Equal(t, "a comment", p.hdr.Comment)
	assert.Equal(t, []byte{'A', 'B', 0x02, 0x00}, p.hdr.Extra)
	assert.Equal(t, time.Unix(0x5c0b5e00, 0), p.hdr.ModTime)
	assert.Equal(t, byte(3), p.hdr.OS)
	assert.True(t, p.hdr.Text)
}

func TestHeaderSplitAtEveryByte(t *testing.T) {
	hdr := fullHeader()
	for split := 0; split <= len(hdr); split++ {
		var p headerParser
		var br bitReader

		br.setInput(hdr[:split])
		ok, err := p.parse(&br)
		require.NoError(t, err)
		require.Equal(t, split == len(hdr), ok, "split %d", split)
		assert.Equal(t, 0, br.remaining())

		br.setInput(hdr[split:])
		ok, err = p.parse(&br)
		require.NoError(t, err)
		require.True(t, ok, "split %d", split)
		assert.Equal(t, "name.txt", p.hdr.Name)
		assert.Equal(t, "a comment", p.hdr.Comment)
	}
}

func TestHeaderByteAtATime(t *testing.T) {
	hdr := fullHeader()
	var p headerParser
	var br bitReader
	for i := range hdr {
		br.setInput(hdr[i : i+1])
		ok, err := p.parse(&br)
		require.NoError(t, err)
		require.Equal(t, i == len(hdr)-1, ok)
	}
	assert.Equal(t, []byte{'A', 'B', 0x02, 0x00}, p.hdr.Extra)
}

func TestHeaderMagic(t *testing.T) {
	cases := [][]byte{
		{0x1f, 0x8c},
		{0x00},
		{0x1f, 0x8b, 0x07, 0x00},
		{'P', 'K', 0x03, 0x04},
	}
	for _, c := range cases {
		var p headerParser
		var br bitReader
		br.setInput(c)
		_, err := p.parse(&br)
		assert.ErrorIs(t, err, ErrMalformedHeader, "%x", c)
	}
}

func TestHeaderLongNameTruncated(t *testing.T) {
	hdr := []byte{gzipID1, gzipID2, gzipDeflate, flagName, 0, 0, 0, 0, 0, 0}
	name := make([]byte, maxHeaderString+100)
	for i := range name {
		name[i] = 'n'
	}
	hdr = append(append(hdr, name...), 0)

	var p headerParser
	var br bitReader
	br.setInput(hdr)
	ok, err := p.parse(&br)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, p.hdr.Name, maxHeaderString)
	assert.True(t, p.hdr.ModTime.IsZero())
}
