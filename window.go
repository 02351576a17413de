package gunzip

import (
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
	windowSize = 32768          // history window size
	windowMask = windowSize - 1 // mask for wrapping logical positions
)

// Sink receives decompressed data. The slice is only valid for the duration
// of the call and must not be retained.
type Sink func(p []byte)

/*
 * Output state and sliding window.
 *
 * Format notes:
 *
 * - Positions are logical: next counts every byte ever written and a slot is
 *   found with index().  The last min(next, windowSize) bytes are always
 *   recoverable.
 *
 * - Bytes are staged in the window and handed to the sink in contiguous runs.
 *   Staged bytes are flushed before their slot is reused and at the end of
 *   every push, so the sink sees the whole output in order.
 *
 * - Overlapped copies, where the length is greater than the distance, are
 *   allowed and common.  For example, a distance of one and a length of 258
 *   simply copies the last byte 258 times.  A simple forward copy ignoring
 *   whether the length is greater than the distance or not implements this
 *   correctly.
 */
type window struct {
	hist    [windowSize]byte // output buffer and sliding window
	next    uint64           // logical position of the next write
	flushed uint64           // logical position up to which the sink has been fed
	sink    Sink             // output function provided by the caller
}

// index maps a logical output position to its slot in hist.
func (w *window) index(pos uint64) int {
	return int(pos & windowMask)
}

// setSink installs the sink for the current push.
func (w *window) setSink(sink Sink) {
	w.sink = sink
}

// put appends one byte to the window.
func (w *window) put(b byte) {
	if w.next-w.flushed == windowSize {
		w.flush()
	}
	w.hist[w.index(w.next)] = b
	w.next++
}

// write appends p to the window.
func (w *window) write(p []byte) {
	for len(p) > 0 {
		if w.next-w.flushed == windowSize {
			w.flush()
		}
		slot := w.index(w.next)
		n := min(len(p), windowSize-slot, windowSize-int(w.next-w.flushed))
		copy(w.hist[slot:slot+n], p[:n])
		w.next += uint64(n)
		p = p[n:]
	}
}

// copy appends length bytes starting distance bytes back in the output.
func (w *window) copy(distance, length int) error {
	if distance <= 0 || distance > windowSize || uint64(distance) > w.next {
		return errors.Wrapf(ErrInvalidBackReference, "distance %d with %d bytes of history", distance, w.next)
	}
	from := w.next - uint64(distance)
	for ; length > 0; length-- {
		w.put(w.hist[w.index(from)])
		from++
	}
	return nil
}

// flush hands every staged byte to the sink, in at most two runs.
func (w *window) flush() {
	for w.flushed < w.next {
		start := w.index(w.flushed)
		end := start + int(w.next-w.flushed)
		if end > windowSize {
			end = windowSize
		}
		if w.sink != nil {
			w.sink(w.hist[start:end])
		}
		w.flushed += uint64(end - start)
	}
}

// written returns the number of bytes produced so far.
func (w *window) written() uint64 {
	return w.next
}

// reset empties the window.
func (w *window) reset() {
	w.next = 0
	w.flushed = 0
	w.sink = nil
}
