package gunzip

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
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

type blockState int

const (
	stateHeader            blockState = iota // gzip member header
	stateBlockHeader                         // BFINAL and BTYPE
	stateStoredLen                           // LEN and NLEN of a stored block
	stateStored                              // raw bytes of a stored block
	stateDynamicHeader                       // HLIT, HDIST and HCLEN
	stateCodeLengthLengths                   // lengths of the code length code
	stateCodeLengths                         // literal/length and distance lengths
	stateCodeLengthRepeat                    // extra bits of a repeat instruction
	stateSymbol                              // literal/length symbol
	stateLengthExtra                         // extra bits of a length
	stateDistanceSymbol                      // distance symbol
	stateDistanceExtra                       // extra bits of a distance
	stateFinished                            // last block done
)

var blockTypeNames = [...]string{"stored", "fixed", "dynamic", "reserved"}

var (
	// order of code length codes
	codeLengthOrder = [numCLCodes]uint8{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

	lengthBase = [...]uint16{ // base for length codes 257..285
		3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
		35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
	lengthExtra = [...]uint8{ // extra bits for length codes 257..285
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}
	distanceBase = [...]uint16{ // offset base for distance codes 0..29
		1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
		257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
		8193, 12289, 16385, 24577}
	distanceExtra = [...]uint8{ // extra bits for distance codes 0..29
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
		7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}
)

/*
 * Advance the decoder by one state.  Return false if the input ran out
 * before the state could complete.
 *
 * Format notes:
 *
 * - Every state reads only what it can finish: ensure() is checked before any
 *   bits are dropped, so returning false leaves the bit buffer, the tables
 *   and all counters exactly where the next push must pick them up.
 *
 * - Three bits start each block: BFINAL, then BTYPE in the next two bits.
 *   BTYPE 0 is stored, 1 fixed Huffman, 2 dynamic Huffman, 3 is reserved.
 *
 * - A stored block starts on a byte boundary with LEN and NLEN, each two
 *   bytes little endian, NLEN being the one's complement of LEN.
 *
 * - A dynamic block gives HLIT - 257, HDIST - 1 and HCLEN - 4, then HCLEN
 *   three bit lengths in codeLengthOrder for the code length code, then the
 *   HLIT + HDIST lengths coded with it.  Symbols 0..15 are lengths, 16 copies
 *   the previous length 3..6 times, 17 repeats a zero length 3..10 times and
 *   18 repeats a zero length 11..138 times.  Repeats may run from the last
 *   literal/length into the first distance lengths.
 *
 * - Literal/length symbols below 256 are literal bytes, 256 ends the block,
 *   257..285 are lengths that are followed by a distance symbol.
 */
func (d *Decoder) step() (bool, error) {
	br := &d.br
	switch d.state {
	case stateHeader:
		ok, err := d.hdr.parse(br)
		if err != nil || !ok {
			return false, err
		}
		if d.debug() {
			d.log.WithFields(logrus.Fields{
				"name":    d.hdr.hdr.Name,
				"modTime": d.hdr.hdr.ModTime,
				"os":      d.hdr.hdr.OS,
			}).Debug("gzip header parsed")
		}
		d.state = stateBlockHeader

	case stateBlockHeader:
		if !br.ensure(3) {
			return false, nil
		}
		d.lastBlock = br.read(1) == 1
		typ := br.read(2)
		d.blocks++
		if d.debug() {
			d.log.WithFields(logrus.Fields{
				"block": d.blocks,
				"type":  blockTypeNames[typ],
				"final": d.lastBlock,
			}).Debug("block start")
		}
		switch typ {
		case 0:
			br.alignToByte()
			d.state = stateStoredLen
		case 1:
			d.lit, d.dist = fixedTables()
			d.state = stateSymbol
		case 2:
			d.state = stateDynamicHeader
		default:
			return false, errors.Wrapf(ErrInvalidBlockType, "block %d", d.blocks)
		}

	case stateStoredLen:
		if !br.ensure(32) {
			return false, nil
		}
		length := br.read(16)
		check := br.read(16)
		if d.opts.VerifyStoredLength && length != ^check&0xffff {
			return false, errors.Wrapf(ErrCorruptStoredBlock, "LEN %#04x NLEN %#04x", length, check)
		}
		d.stored = int(length)
		d.state = stateStored

	case stateStored:
		// bytes already pulled into the bit buffer come first
		for d.stored > 0 && br.buffered() >= 8 {
			d.win.put(byte(br.read(8)))
			d.stored--
		}
		for d.stored > 0 {
			p := br.readBytes(d.stored)
			if len(p) == 0 {
				return false, nil
			}
			d.win.write(p)
			d.stored -= len(p)
		}
		d.endBlock()

	case stateDynamicHeader:
		if !br.ensure(14) {
			return false, nil
		}
		d.hlit = int(br.read(5)) + 257
		d.hdist = int(br.read(5)) + 1
		d.hclen = int(br.read(4)) + 4
		if d.hlit > maxLCodes || d.hdist > maxDCodes {
			return false, errors.Wrapf(ErrInvalidHuffmanTable, "HLIT %d HDIST %d", d.hlit, d.hdist)
		}
		d.codeLengthLengths = [numCLCodes]uint8{}
		d.ncode = 0
		d.state = stateCodeLengthLengths

	case stateCodeLengthLengths:
		for d.ncode < d.hclen {
			if !br.ensure(3) {
				return false, nil
			}
			d.codeLengthLengths[codeLengthOrder[d.ncode]] = uint8(br.read(3))
			d.ncode++
		}
		if err := d.codeLengthTable.build(d.codeLengthLengths[:]); err != nil {
			return false, errors.Wrap(err, "code length code")
		}
		d.lengths = [maxCodes]uint8{}
		d.ncode = 0
		d.state = stateCodeLengths

	case stateCodeLengths:
		for d.ncode < d.hlit+d.hdist {
			sym, ok, err := d.codeLengthTable.decode(br)
			if err != nil || !ok {
				return false, err
			}
			if sym < 16 {
				d.lengths[d.ncode] = uint8(sym)
				d.ncode++
				continue
			}
			if sym == 16 && d.ncode == 0 {
				return false, errors.Wrap(ErrInvalidHuffmanTable, "repeat with no previous length")
			}
			d.repeat = sym
			d.state = stateCodeLengthRepeat
			return true, nil
		}
		if err := d.buildDynamic(); err != nil {
			return false, err
		}
		d.state = stateSymbol

	case stateCodeLengthRepeat:
		var extra uint
		var count int
		var val uint8
		switch d.repeat {
		case 16:
			extra, count, val = 2, 3, d.lengths[d.ncode-1]
		case 17:
			extra, count = 3, 3
		default:
			extra, count = 7, 11
		}
		if !br.ensure(extra) {
			return false, nil
		}
		count += int(br.read(extra))
		if d.ncode+count > d.hlit+d.hdist {
			return false, errors.Wrapf(ErrInvalidHuffmanTable, "repeat of %d overruns %d lengths", count, d.hlit+d.hdist)
		}
		for ; count > 0; count-- {
			d.lengths[d.ncode] = val
			d.ncode++
		}
		d.state = stateCodeLengths

	case stateSymbol:
		for {
			sym, ok, err := d.lit.decode(br)
			if err != nil || !ok {
				return false, err
			}
			if sym < 256 {
				d.win.put(byte(sym))
				continue
			}
			if sym == 256 {
				d.endBlock()
				return true, nil
			}
			sym -= 257
			if sym >= len(lengthBase) {
				return false, errors.Wrapf(ErrInvalidHuffmanTable, "length symbol %d", sym+257)
			}
			d.length = int(lengthBase[sym])
			d.extra = uint(lengthExtra[sym])
			d.state = stateLengthExtra
			return true, nil
		}

	case stateLengthExtra:
		if !br.ensure(d.extra) {
			return false, nil
		}
		d.length += int(br.read(d.extra))
		d.state = stateDistanceSymbol

	case stateDistanceSymbol:
		sym, ok, err := d.dist.decode(br)
		if err != nil || !ok {
			return false, err
		}
		if sym >= len(distanceBase) {
			return false, errors.Wrapf(ErrInvalidHuffmanTable, "distance symbol %d", sym)
		}
		d.distance = int(distanceBase[sym])
		d.extra = uint(distanceExtra[sym])
		d.state = stateDistanceExtra

	case stateDistanceExtra:
		if !br.ensure(d.extra) {
			return false, nil
		}
		d.distance += int(br.read(d.extra))
		if err := d.win.copy(d.distance, d.length); err != nil {
			return false, err
		}
		d.state = stateSymbol

	case stateFinished:
		return false, nil
	}
	return true, nil
}

// buildDynamic turns the decoded code lengths into the block's tables.
func (d *Decoder) buildDynamic() error {
	lit := d.lengths[:d.hlit]
	if lit[256] == 0 {
		return errors.Wrap(ErrInvalidHuffmanTable, "no end-of-block code")
	}
	if err := d.dynLit.build(lit); err != nil {
		return errors.Wrap(err, "literal/length code")
	}
	if err := d.dynDist.build(d.lengths[d.hlit : d.hlit+d.hdist]); err != nil {
		return errors.Wrap(err, "distance code")
	}
	d.lit, d.dist = &d.dynLit, &d.dynDist
	return nil
}

// endBlock moves to the next block, or finishes after the last one.
func (d *Decoder) endBlock() {
	if d.lastBlock {
		if d.debug() {
			d.log.WithField("written", d.win.written()).Debug("last block done")
		}
		d.state = stateFinished
		return
	}
	d.state = stateBlockHeader
}

// debug reports whether debug events are logged, so per-block fields are
// only built when they will be used.
func (d *Decoder) debug() bool {
	return d.log.Logger.IsLevelEnabled(logrus.DebugLevel)
}
