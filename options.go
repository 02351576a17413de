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

// DefaultChunkSize is the read size used by NewReader.
const DefaultChunkSize = 16384

// Options configures a Decoder. A nil *Options means DefaultOptions.
type Options struct {
	// Log receives debug output for header and block transitions.
	Log *logrus.Entry
	// VerifyStoredLength rejects stored blocks whose NLEN is not the one's
	// complement of LEN.
	VerifyStoredLength bool
	// ChunkSize is the number of bytes NewReader pulls from its source per push.
	ChunkSize int
}

// DefaultOptions returns options with stored length checks enabled and
// logging through the standard logrus logger.
func DefaultOptions() *Options {
	return &Options{
		Log:                logrus.WithField("pkg", "gunzip"),
		VerifyStoredLength: true,
		ChunkSize:          DefaultChunkSize,
	}
}

func (o *Options) withDefaults() *Options {
	def := DefaultOptions()
	if o == nil {
		return def
	}
	out := *o
	if out.Log == nil {
		out.Log = def.Log
	}
	if out.ChunkSize <= 0 {
		out.ChunkSize = def.ChunkSize
	}
	return &out
}
