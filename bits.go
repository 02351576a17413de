package gunzip

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

/*
 * Bit input over the chunk handed to the current Push.
 *
 * Format notes:
 *
 * - Bits are stored in bytes from the least significant bit to the most
 *   significant bit.  Therefore bits are dropped from the bottom of the bit
 *   buffer, using shift right, and new bytes are appended to the top of the
 *   bit buffer, using shift left.
 *
 * - The buffer survives between pushes, the input slice does not.  Bytes are
 *   only pulled into the buffer when a caller asks for more bits than are
 *   held, so a failed ensure() never loses data: the next chunk simply
 *   continues the refill.
 */
type bitReader struct {
	in     []byte // input borrowed for the current push
	pos    int    // next unread byte of in
	bitbuf uint64 // bit buffer
	bitcnt uint   // number of bits in bit buffer
}

// setInput installs the chunk for the current push.
func (br *bitReader) setInput(in []byte) {
	br.in = in
	br.pos = 0
}

// release drops the borrowed chunk so it is never retained past a push.
func (br *bitReader) release() {
	br.in = nil
	br.pos = 0
}

// ensure reports whether need bits are buffered, loading whole bytes from
// the input until they are or the input runs out.
func (br *bitReader) ensure(need uint) bool {
	for br.bitcnt < need {
		if br.pos >= len(br.in) {
			return false
		}
		br.bitbuf |= uint64(br.in[br.pos]) << br.bitcnt // load eight bits
		br.pos++
		br.bitcnt += 8
	}
	return true
}

// read returns need bits. The caller must have called ensure(need).
func (br *bitReader) read(need uint) uint32 {
	val := uint32(br.bitbuf & (1<<need - 1))
	br.bitbuf >>= need
	br.bitcnt -= need
	return val
}

// peek returns the buffered bits without consuming them.
func (br *bitReader) peek() uint64 {
	return br.bitbuf
}

// drop discards n buffered bits.
func (br *bitReader) drop(n uint) {
	br.bitbuf >>= n
	br.bitcnt -= n
}

// readByte returns the next whole byte, taken from the bit buffer first and
// then from the input. The buffer must be byte aligned.
func (br *bitReader) readByte() (byte, bool) {
	if br.bitcnt >= 8 {
		return byte(br.read(8)), true
	}
	if br.pos >= len(br.in) {
		return 0, false
	}
	b := br.in[br.pos]
	br.pos++
	return b, true
}

// readBytes returns up to n whole bytes straight from the input. The bit
// buffer must be empty. The returned slice aliases the input.
func (br *bitReader) readBytes(n int) []byte {
	if n > len(br.in)-br.pos {
		n = len(br.in) - br.pos
	}
	p := br.in[br.pos : br.pos+n]
	br.pos += n
	return p
}

// alignToByte discards the bits left over from a partially consumed byte.
// Whole bytes already in the buffer are kept, they are stream data.
func (br *bitReader) alignToByte() {
	br.drop(br.bitcnt & 7)
}

// buffered returns the number of bits held in the buffer.
func (br *bitReader) buffered() uint {
	return br.bitcnt
}

// remaining returns the number of unread bytes in the input.
func (br *bitReader) remaining() int {
	return len(br.in) - br.pos
}

// reset clears the buffer and the input view.
func (br *bitReader) reset() {
	*br = bitReader{}
}
