package gunzip

import (
	"encoding/binary"
	"time"

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
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8
	flagText    = 1 << 0
	flagHdrCrc  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4

	fixedHeaderLen  = 10   // magic, method, flags, mtime, xfl, os
	maxHeaderString = 4096 // longest name or comment kept in Header
)

var gzipMagic = [3]byte{gzipID1, gzipID2, gzipDeflate}

// Header holds the optional metadata of a gzip member.
type Header struct {
	Name    string    // file name, truncated to maxHeaderString bytes
	Comment string    // comment, truncated to maxHeaderString bytes
	Extra   []byte    // extra field
	ModTime time.Time // modification time, zero when not set
	OS      byte      // operating system type
	Text    bool      // FTEXT hint
}

type headerState int

const (
	headerFixed headerState = iota
	headerExtraLen
	headerExtra
	headerName
	headerComment
	headerCRC
	headerDone
)

/*
 * Gzip member header parser.
 *
 * Format notes:
 *
 * - The header is ten fixed bytes followed by optional fields selected by the
 *   flag byte, in this order: a length-prefixed extra field, a NUL-terminated
 *   file name, a NUL-terminated comment, and a two byte header CRC.
 *
 * - A chunk may end anywhere inside the header.  The parser only ever holds
 *   the bytes it has fully accounted for (the fixed part, the two byte extra
 *   length, the name or comment being collected) and resumes with the next
 *   byte of the following chunk.
 *
 * - The magic and method are checked byte by byte as they arrive, so a
 *   foreign stream is rejected without waiting for the whole fixed part.
 */
type headerParser struct {
	state headerState
	buf   [fixedHeaderLen]byte // fixed header, reused for the extra length
	n     int                  // bytes collected into buf
	flags byte
	left  int    // bytes of extra field or header CRC still to skip
	str   []byte // name or comment being collected
	hdr   Header
}

// parse consumes header bytes from br. It returns true once the header is
// complete and false when the input ran out first.
func (p *headerParser) parse(br *bitReader) (bool, error) {
	for {
		switch p.state {
		case headerFixed:
			for p.n < fixedHeaderLen {
				b, ok := br.readByte()
				if !ok {
					return false, nil
				}
				if p.n < len(gzipMagic) && b != gzipMagic[p.n] {
					return false, errors.Wrapf(ErrMalformedHeader, "byte %d is %#02x, want %#02x", p.n, b, gzipMagic[p.n])
				}
				p.buf[p.n] = b
				p.n++
			}
			p.flags = p.buf[3]
			if mtime := binary.LittleEndian.Uint32(p.buf[4:8]); mtime > 0 {
				p.hdr.ModTime = time.Unix(int64(mtime), 0)
			}
			p.hdr.OS = p.buf[9]
			p.hdr.Text = p.flags&flagText != 0
			p.n = 0
			p.state = headerExtraLen

		case headerExtraLen:
			if p.flags&flagExtra == 0 {
				p.state = headerName
				continue
			}
			for p.n < 2 {
				b, ok := br.readByte()
				if !ok {
					return false, nil
				}
				p.buf[p.n] = b
				p.n++
			}
			p.left = int(binary.LittleEndian.Uint16(p.buf[:2]))
			p.hdr.Extra = make([]byte, 0, p.left)
			p.state = headerExtra

		case headerExtra:
			for p.left > 0 {
				b, ok := br.readByte()
				if !ok {
					return false, nil
				}
				p.hdr.Extra = append(p.hdr.Extra, b)
				p.left--
			}
			p.state = headerName

		case headerName:
			if p.flags&flagName != 0 {
				if !p.readString(br) {
					return false, nil
				}
				p.hdr.Name = string(p.str)
				p.str = p.str[:0]
			}
			p.state = headerComment

		case headerComment:
			if p.flags&flagComment != 0 {
				if !p.readString(br) {
					return false, nil
				}
				p.hdr.Comment = string(p.str)
				p.str = p.str[:0]
			}
			p.left = 0
			if p.flags&flagHdrCrc != 0 {
				p.left = 2
			}
			p.state = headerCRC

		case headerCRC:
			for p.left > 0 {
				if _, ok := br.readByte(); !ok {
					return false, nil
				}
				p.left--
			}
			p.state = headerDone

		case headerDone:
			return true, nil
		}
	}
}

// readString collects bytes up to and including a NUL terminator. It
// returns false if the input ran out before the terminator.
func (p *headerParser) readString(br *bitReader) bool {
	for {
		b, ok := br.readByte()
		if !ok {
			return false
		}
		if b == 0 {
			return true
		}
		if len(p.str) < maxHeaderString {
			p.str = append(p.str, b)
		}
	}
}

// done reports whether the whole header has been consumed.
func (p *headerParser) done() bool {
	return p.state == headerDone
}

func (p *headerParser) reset() {
	*p = headerParser{str: p.str[:0]}
}
