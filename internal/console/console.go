// Package console redraws a single status line on a terminal.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
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
	carriageReturn = "\r"
	eraseLine      = "\033[2K"
)

// Line is a status line that is rewritten in place. All methods are no-ops
// when the line is disabled.
type Line struct {
	w       io.Writer
	enabled bool
}

// New returns a Line drawing to f, enabled only when f is a terminal.
func New(f *os.File) *Line {
	fd := f.Fd()
	return NewWriter(f, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// NewWriter returns a Line drawing to w.
func NewWriter(w io.Writer, enabled bool) *Line {
	return &Line{w: w, enabled: enabled}
}

// Enabled reports whether the line is drawn.
func (l *Line) Enabled() bool {
	return l != nil && l.enabled
}

// Overwrite replaces the current line with text.
func (l *Line) Overwrite(text string) {
	if !l.Enabled() {
		return
	}
	fmt.Fprint(l.w, carriageReturn+eraseLine+text)
}

// Clear erases the current line and returns the cursor to its start.
func (l *Line) Clear() {
	if !l.Enabled() {
		return
	}
	fmt.Fprint(l.w, carriageReturn+eraseLine)
}

// Newline ends the current line, leaving its text on screen.
func (l *Line) Newline() {
	if !l.Enabled() {
		return
	}
	fmt.Fprint(l.w, "\n")
}
