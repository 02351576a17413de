package gunzip

import (
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

// Status is the outcome of a Push.
type Status int

const (
	// NeedMoreInput means the chunk was used up before the stream ended.
	NeedMoreInput Status = iota
	// Done means the last DEFLATE block has been decoded.
	Done
	// Failed means the stream is corrupt; the accompanying error says why.
	Failed
)

func (s Status) String() string {
	switch s {
	case NeedMoreInput:
		return "NeedMoreInput"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	}
	return "Status(?)"
}

// Decoder decodes a single gzip member pushed to it in chunks of any size.
//
// A Decoder is not safe for concurrent use. Everything needed to resume
// between pushes lives in its fields: the bit buffer, the history window,
// the active tables, and the counters of whichever block part was being
// read when the previous chunk ran out.
type Decoder struct {
	opts *Options
	log  *logrus.Entry

	br  bitReader    // input state
	win window       // output state
	hdr headerParser // gzip member header

	state     blockState
	lastBlock bool  // BFINAL of the current block
	blocks    int   // blocks started so far
	err       error // sticky fatal error

	lit  *huffmanTable // active literal/length table
	dist *huffmanTable // active distance table

	dynLit          huffmanTable
	dynDist         huffmanTable
	codeLengthTable huffmanTable

	// dynamic block header
	hlit, hdist, hclen int
	codeLengthLengths  [numCLCodes]uint8
	lengths            [maxCodes]uint8
	ncode              int // entries of codeLengthLengths or lengths filled so far
	repeat             int // pending repeat instruction, 16, 17 or 18

	stored   int  // bytes left in the stored block
	length   int  // pending match length
	distance int  // pending match distance
	extra    uint // extra bits for the pending length or distance
}

// NewDecoder returns a Decoder ready for the first chunk of a gzip member.
// A nil opts means DefaultOptions.
func NewDecoder(opts *Options) *Decoder {
	opts = opts.withDefaults()
	return &Decoder{
		opts: opts,
		log:  opts.Log,
	}
}

// Push decodes as much of chunk as possible, handing output to sink before it
// returns. The chunk is not retained.
//
// Push returns NeedMoreInput when chunk is used up, Done once the last block
// has been decoded, or Failed with an error wrapping one of the Err values.
// Bytes following the last block (the gzip trailer) are ignored, as is any
// input pushed after Done. After Failed the Decoder must be discarded or
// Reset.
func (d *Decoder) Push(chunk []byte, sink Sink) (Status, error) {
	if d.err != nil {
		return Failed, d.err
	}
	if d.state == stateFinished {
		return Done, nil
	}

	d.br.setInput(chunk)
	d.win.setSink(sink)
	defer func() {
		d.win.flush()
		d.win.setSink(nil)
		d.br.release()
	}()

	for d.state != stateFinished {
		ok, err := d.step()
		if err != nil {
			d.err = err
			d.log.WithError(err).Debug("decoding failed")
			return Failed, err
		}
		if !ok {
			return NeedMoreInput, nil
		}
	}
	return Done, nil
}

// Header returns the gzip member header and whether it has been read in full.
func (d *Decoder) Header() (Header, bool) {
	return d.hdr.hdr, d.hdr.done()
}

// Written returns the number of decompressed bytes produced so far.
func (d *Decoder) Written() uint64 {
	return d.win.written()
}

// Reset returns the Decoder to its initial state so it can decode another
// gzip member.
func (d *Decoder) Reset() {
	d.br.reset()
	d.win.reset()
	d.hdr.reset()
	d.state = stateHeader
	d.lastBlock = false
	d.blocks = 0
	d.err = nil
	d.lit, d.dist = nil, nil
	d.ncode, d.repeat = 0, 0
	d.stored, d.length, d.distance, d.extra = 0, 0, 0, 0
}
