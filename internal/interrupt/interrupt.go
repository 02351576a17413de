// Package interrupt provides a caller-owned "should I stop" flag that can be
// raised by OS signals.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
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

// Flag records that an interrupt was requested. The zero value is an unset
// flag. A Flag is safe for concurrent use.
type Flag struct {
	set atomic.Bool
}

// Set raises the flag.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether the flag is raised.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Notify raises f whenever one of sigs is delivered, until ctx is done.
func (f *Flag) Notify(ctx context.Context, sigs ...os.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ch:
				f.Set()
			case <-ctx.Done():
				return
			}
		}
	}()
}
