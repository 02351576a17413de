package gunzip

import (
	"sync"

	"github.com/pkg/errors"
)

/*
 * Copyright (c) 2018 Josh Varga
 *
 * This software is provided 'as-is', without any express or implied
 * warranty. In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 * 3. This notice may not be removed or altered from any source distribution.
 */

const (
	maxBits    = 15            // maximum code length
	tableSize  = 1 << maxBits  // entries in a decoding table
	tableMask  = tableSize - 1 // mask selecting a table index from the bit buffer
	maxLCodes  = 286           // maximum number of literal/length codes
	maxDCodes  = 30            // maximum number of distance codes
	maxCodes   = maxLCodes + maxDCodes
	numCLCodes = 19 // number of code length codes
)

// The fixed code assigns lengths to 288 literal/length and 32 distance
// symbols. Symbols 286, 287 and distances 30, 31 take part in building the
// code but are rejected when decoded.
const (
	fixedLCodes = 288
	fixedDCodes = 32
)

// huffmanEntry is one slot of a decoding table. A zero length marks a slot
// that no code maps to.
type huffmanEntry struct {
	symbol uint16
	length uint8
}

/*
 * Huffman code decoding tables.  The table is indexed by the next maxBits
 * bits of input as they sit in the bit buffer, i.e. least significant bit
 * first.  Every code of length len owns the 2^(maxBits-len) slots whose low
 * len bits equal the bit-reversed code, so one lookup yields both the symbol
 * and how many bits to drop.
 */
type huffmanTable struct {
	entries [tableSize]huffmanEntry
	count   int // number of symbols with a nonzero length
}

/*
 * Given the list of code lengths length[0..n-1] representing a canonical
 * Huffman code for n symbols, fill the decoding table.
 *
 * Format notes:
 *
 * - The first code of each length is computed from the counts of the shorter
 *   lengths: code = (code + count[len-1]) << 1, starting at zero.  Codes of
 *   one length are handed out to symbols in increasing symbol order.
 *
 * - Codes are sent most significant bit first while the bit buffer fills
 *   from the bottom, so each code is reversed before it is placed.
 *
 * - An over-subscribed set of lengths is an error.  An incomplete set is
 *   accepted and leaves some slots empty; decoding one of those fails.  All
 *   zero lengths give an empty table, which is accepted here and fails as
 *   soon as it is used.
 */
func (h *huffmanTable) build(length []uint8) error {
	var count [maxBits + 1]int
	var next [maxBits + 1]int

	for _, l := range length {
		if l > maxBits {
			return errors.Wrapf(ErrInvalidHuffmanTable, "code length %d exceeds %d", l, maxBits)
		}
		count[l]++
	}
	count[0] = 0

	// check for an over-subscribed set of lengths
	left := 1 // one possible code of zero length
	for l := 1; l <= maxBits; l++ {
		left <<= 1
		left -= count[l]
		if left < 0 {
			return errors.Wrap(ErrInvalidHuffmanTable, "over-subscribed code lengths")
		}
	}

	code := 0
	for l := 1; l <= maxBits; l++ {
		code = (code + count[l-1]) << 1
		next[l] = code
	}

	h.entries = [tableSize]huffmanEntry{}
	h.count = 0
	for sym, l := range length {
		if l == 0 {
			continue
		}
		h.count++
		rev := reverseBits(uint32(next[l]), uint(l))
		next[l]++
		entry := huffmanEntry{symbol: uint16(sym), length: l}
		for idx := int(rev); idx < tableSize; idx += 1 << l {
			h.entries[idx] = entry
		}
	}
	return nil
}

// reverseBits returns the low n bits of code in reverse order.
func reverseBits(code uint32, n uint) uint32 {
	var rev uint32
	for i := uint(0); i < n; i++ {
		rev = rev<<1 | code&1
		code >>= 1
	}
	return rev
}

/*
 * Decode a code from the bit reader using table h.  Return the symbol and
 * true, or false if more input is needed.  When fewer than maxBits bits are
 * left in the stream the lookup is still valid as long as the matched code
 * is no longer than the bits actually buffered, since unfilled bits read as
 * zero and a prefix code's low bits already determine the symbol.
 */
func (h *huffmanTable) decode(br *bitReader) (int, bool, error) {
	full := br.ensure(maxBits)
	e := h.entries[br.peek()&tableMask]
	if e.length == 0 || uint(e.length) > br.buffered() {
		if full {
			return 0, false, errors.Wrap(ErrInvalidHuffmanTable, "no code matches input")
		}
		return 0, false, nil
	}
	br.drop(uint(e.length))
	return int(e.symbol), true, nil
}

var (
	fixedOnce     sync.Once
	fixedLitTable huffmanTable
	fixedDstTable huffmanTable
)

// fixedTables returns the tables for fixed Huffman blocks, building them on
// first use.
func fixedTables() (*huffmanTable, *huffmanTable) {
	fixedOnce.Do(func() {
		var length [fixedLCodes]uint8
		for sym := range length {
			switch {
			case sym < 144:
				length[sym] = 8
			case sym < 256:
				length[sym] = 9
			case sym < 280:
				length[sym] = 7
			default:
				length[sym] = 8
			}
		}
		if err := fixedLitTable.build(length[:]); err != nil {
			panic(err)
		}
		var dist [fixedDCodes]uint8
		for sym := range dist {
			dist[sym] = 5
		}
		if err := fixedDstTable.build(dist[:]); err != nil {
			panic(err)
		}
	})
	return &fixedLitTable, &fixedDstTable
}
