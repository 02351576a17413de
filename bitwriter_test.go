package gunzip

import (
	"encoding/binary"
)

// bitWriter assembles DEFLATE streams bit by bit for hand-built fixtures.
type bitWriter struct {
	buf    []byte
	bitbuf uint64
	bitcnt uint
}

func (w *bitWriter) bits(v uint32, n uint) {
	w.bitbuf |= uint64(v) << w.bitcnt
	w.bitcnt += n
	for w.bitcnt >= 8 {
		w.buf = append(w.buf, byte(w.bitbuf))
		w.bitbuf >>= 8
		w.bitcnt -= 8
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.bits(1, 1)
		return
	}
	w.bits(0, 1)
}

// huffman writes a code most significant bit first.
func (w *bitWriter) huffman(code uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		w.bits(code>>uint(i)&1, 1)
	}
}

func (w *bitWriter) align() {
	if w.bitcnt > 0 {
		w.bits(0, 8-w.bitcnt)
	}
}

func (w *bitWriter) bytes() []byte {
	w.align()
	return w.buf
}

// stored writes a complete stored block.
func (w *bitWriter) stored(final bool, data []byte) {
	w.flag(final)
	w.bits(0, 2)
	w.align()
	var hdr [4]byte
	binary.LittleEndian.PutUint16(hdr[0:], uint16(len(data)))
	binary.LittleEndian.PutUint16(hdr[2:], ^uint16(len(data)))
	w.buf = append(w.buf, hdr[:]...)
	w.buf = append(w.buf, data...)
}

// prefixCode is the encoder side of a canonical code.
type prefixCode struct {
	codes []uint32
	lens  []uint8
}

func canonical(lens []uint8) prefixCode {
	var count [maxBits + 1]uint32
	for _, l := range lens {
		count[l]++
	}
	count[0] = 0
	var next [maxBits + 1]uint32
	code := uint32(0)
	for l := 1; l <= maxBits; l++ {
		code = (code + count[l-1]) << 1
		next[l] = code
	}
	pc := prefixCode{codes: make([]uint32, len(lens)), lens: lens}
	for sym, l := range lens {
		if l != 0 {
			pc.codes[sym] = next[l]
			next[l]++
		}
	}
	return pc
}

func (w *bitWriter) symbol(pc prefixCode, sym int) {
	if pc.lens[sym] == 0 {
		panic("symbol has no code")
	}
	w.huffman(pc.codes[sym], uint(pc.lens[sym]))
}

func fixedLengths() ([]uint8, []uint8) {
	lit := make([]uint8, fixedLCodes)
	for sym := range lit {
		switch {
		case sym < 144:
			lit[sym] = 8
		case sym < 256:
			lit[sym] = 9
		case sym < 280:
			lit[sym] = 7
		default:
			lit[sym] = 8
		}
	}
	dist := make([]uint8, fixedDCodes)
	for sym := range dist {
		dist[sym] = 5
	}
	return lit, dist
}

// blockCodes holds the codes of one Huffman block.
type blockCodes struct {
	lit  prefixCode
	dist prefixCode
}

func fixedCodes() blockCodes {
	lit, dist := fixedLengths()
	return blockCodes{lit: canonical(lit), dist: canonical(dist)}
}

// fixedHeader starts a fixed Huffman block.
func (w *bitWriter) fixedHeader(final bool) blockCodes {
	w.flag(final)
	w.bits(1, 2)
	return fixedCodes()
}

// testCodeLengths is a complete code over all 19 code length symbols.
var testCodeLengths = [numCLCodes]uint8{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5}

// dynamicHeader starts a dynamic Huffman block with the given lengths,
// run-length coding them with symbols 16, 17 and 18.
func (w *bitWriter) dynamicHeader(final bool, lit, dist []uint8) blockCodes {
	w.flag(final)
	w.bits(2, 2)
	w.bits(uint32(len(lit)-257), 5)
	w.bits(uint32(len(dist)-1), 5)
	w.bits(numCLCodes-4, 4)
	for _, sym := range codeLengthOrder {
		w.bits(uint32(testCodeLengths[sym]), 3)
	}
	cl := canonical(testCodeLengths[:])

	all := append(append([]uint8{}, lit...), dist...)
	for i := 0; i < len(all); {
		v := all[i]
		run := 1
		for i+run < len(all) && all[i+run] == v {
			run++
		}
		switch {
		case v == 0 && run >= 11:
			r := min(run, 138)
			w.symbol(cl, 18)
			w.bits(uint32(r-11), 7)
			i += r
		case v == 0 && run >= 3:
			r := min(run, 10)
			w.symbol(cl, 17)
			w.bits(uint32(r-3), 3)
			i += r
		case i > 0 && all[i-1] == v && run >= 3:
			r := min(run, 6)
			w.symbol(cl, 16)
			w.bits(uint32(r-3), 2)
			i += r
		default:
			w.symbol(cl, int(v))
			i++
		}
	}
	return blockCodes{lit: canonical(lit), dist: canonical(dist)}
}

func (w *bitWriter) literal(bc blockCodes, b byte) {
	w.symbol(bc.lit, int(b))
}

func (w *bitWriter) endOfBlock(bc blockCodes) {
	w.symbol(bc.lit, 256)
}

// match writes a length/distance pair.
func (w *bitWriter) match(bc blockCodes, length, distance int) {
	i := len(lengthBase) - 1
	for int(lengthBase[i]) > length {
		i--
	}
	w.symbol(bc.lit, 257+i)
	w.bits(uint32(length-int(lengthBase[i])), uint(lengthExtra[i]))

	j := len(distanceBase) - 1
	for int(distanceBase[j]) > distance {
		j--
	}
	w.symbol(bc.dist, j)
	w.bits(uint32(distance-int(distanceBase[j])), uint(distanceExtra[j]))
}

// gzipMember wraps a DEFLATE stream in a minimal gzip header and a zero
// trailer.
func gzipMember(deflate []byte) []byte {
	out := []byte{gzipID1, gzipID2, gzipDeflate, 0, 0, 0, 0, 0, 0, 0xff}
	out = append(out, deflate...)
	return append(out, make([]byte, 8)...)
}

// decodeInChunks pushes stream to a fresh decoder in chunks of size n and
// returns the concatenated output, the number of sink calls, and the last
// status and error.
func decodeInChunks(stream []byte, n int) ([]byte, int, Status, error) {
	d := NewDecoder(nil)
	var out []byte
	calls := 0
	sink := func(p []byte) {
		calls++
		out = append(out, p...)
	}
	status := NeedMoreInput
	var err error
	for len(stream) > 0 && status == NeedMoreInput {
		k := min(n, len(stream))
		status, err = d.Push(stream[:k], sink)
		stream = stream[k:]
	}
	return out, calls, status, err
}
