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

var (
	// ErrMalformedHeader is returned when the gzip magic bytes or the
	// compression method do not match.
	ErrMalformedHeader = errors.New("gunzip: invalid header")
	// ErrInvalidBlockType is returned for the reserved DEFLATE block type.
	ErrInvalidBlockType = errors.New("gunzip: invalid block type")
	// ErrInvalidHuffmanTable is returned when a code length set cannot form a
	// usable prefix code or a code is not present in the active table.
	ErrInvalidHuffmanTable = errors.New("gunzip: invalid huffman table")
	// ErrInvalidBackReference is returned when a distance points before the
	// start of the output or beyond the window.
	ErrInvalidBackReference = errors.New("gunzip: distance is too far back")
	// ErrCorruptStoredBlock is returned when a stored block length does not
	// match its one's complement.
	ErrCorruptStoredBlock = errors.New("gunzip: stored block length mismatch")
)
