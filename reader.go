/*
Package gunzip implements streaming decompression of gzip (RFC 1952) members
holding DEFLATE (RFC 1951) data.

The Decoder is fed the compressed stream in chunks of any size and hands the
decompressed bytes to a callback as it goes, so neither side of the stream
has to be held in memory. For example, to decode chunks as they arrive:

	d := gunzip.NewDecoder(nil)
	status, err := d.Push(chunk, func(p []byte) { os.Stdout.Write(p) })

NewReader wraps the same decoder in an io.ReadCloser:

	r, err := gunzip.NewReader(f)
	io.Copy(os.Stdout, r)
	r.Close()

Only a single member is decoded and the trailer (CRC-32 and length) is not
checked.
*/
package gunzip

import (
	"bytes"
	"io"

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

// maxEmptyReads is how many (0, nil) reads in a row are tolerated before
// the source is reported as stuck.
const maxEmptyReads = 100

type reader struct {
	r      io.Reader
	dec    *Decoder
	in     []byte
	out    bytes.Buffer
	status Status
	err    error
	empty  int // consecutive reads that returned no data and no error
}

// NewReader creates a new ReadCloser.
// Reads from the returned ReadCloser read and decompress data from r.
// The gzip header is read before NewReader returns, so a stream that is not
// gzip is reported here.
// It is the caller's responsibility to call Close on the ReadCloser when done.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	return NewReaderOptions(r, nil)
}

// NewReaderOptions is like NewReader but configures the decoder with opts.
func NewReaderOptions(r io.Reader, opts *Options) (io.ReadCloser, error) {
	opts = opts.withDefaults()
	z := &reader{
		r:   r,
		dec: NewDecoder(opts),
		in:  make([]byte, opts.ChunkSize),
	}
	for {
		if _, ok := z.dec.Header(); ok {
			return z, nil
		}
		z.fill()
		if z.err != nil {
			return nil, z.err
		}
	}
}

// fill reads one chunk from the source and pushes it to the decoder.
func (z *reader) fill() {
	n, err := z.r.Read(z.in)
	if n == 0 && err == nil {
		z.empty++
		if z.empty >= maxEmptyReads {
			z.err = io.ErrNoProgress
		}
		return
	}
	z.empty = 0
	if n > 0 {
		z.status, z.err = z.dec.Push(z.in[:n], z.sink)
		if z.err != nil || z.status == Done {
			return
		}
	}
	switch {
	case err == io.EOF:
		z.err = io.ErrUnexpectedEOF
	case err != nil:
		z.err = errors.Wrap(err, "gunzip: reading compressed input")
	}
}

func (z *reader) sink(p []byte) {
	z.out.Write(p)
}

func (z *reader) Read(p []byte) (n int, err error) {
	for z.out.Len() == 0 {
		if z.status == Done {
			return 0, io.EOF
		}
		if z.err != nil {
			return 0, z.err
		}
		z.fill()
	}
	return z.out.Read(p)
}

func (z *reader) Close() error {
	return nil
}
