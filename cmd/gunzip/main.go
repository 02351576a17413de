package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JoshVarga/gunzip"
	"github.com/JoshVarga/gunzip/internal/console"
	"github.com/JoshVarga/gunzip/internal/fsutil"
	"github.com/JoshVarga/gunzip/internal/interrupt"
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

const progressInterval = 100 * time.Millisecond

var errInterrupted = errors.New("interrupted")

func main() {
	cli, err := NewCLI()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("ERROR:"), err)
		os.Exit(1)
	}

	if cli.NoColor {
		color.NoColor = true
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	if cli.Debug {
		logrus.Info("debug mode enabled")
		logrus.SetLevel(logrus.DebugLevel)
	} else if cli.Quiet {
		logrus.SetLevel(logrus.WarnLevel)
	}

	displayConfig(cli)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := &interrupt.Flag{}
	stop.Notify(ctx, os.Interrupt, syscall.SIGTERM)

	line := console.New(os.Stderr)
	if cli.Quiet {
		line = console.NewWriter(io.Discard, false)
	}

	if err := run(cli, stop, line); err != nil {
		if errors.Is(err, errInterrupted) {
			logrus.Warn("interrupted, partial output removed")
			os.Exit(130)
		}
		logrus.Errorf("unable to decompress %s: %s", cli.Input, err)
		os.Exit(1)
	}
}

func displayConfig(cli *CLI) {
	if cli == nil {
		return
	}

	logrus.Info("gunzip settings:")
	logrus.Infof("  version: %s", VERSION)
	logrus.Infof("  debug: %v", cli.Debug)
	logrus.Infof("  input: %s", cli.Input)
	logrus.Infof("  output: %s", cli.Output)
	logrus.Infof("  chunk size: %d", cli.ChunkSize)
	logrus.Infof("  force: %v", cli.Force)
	logrus.Infof("  lenient: %v", cli.Lenient)
	logrus.Infof("  disable color: %v", cli.NoColor)
}

// run decodes cli.Input into cli.Output through a .part file. The partial
// file is removed on any failure.
func run(cli *CLI, stop *interrupt.Flag, line *console.Line) error {
	in, err := os.Open(cli.Input)
	if err != nil {
		return errors.Wrap(err, "unable to open input")
	}
	defer in.Close()

	part := cli.Output + PartSuffix
	out, err := os.Create(part)
	if err != nil {
		return errors.Wrap(err, "unable to create output")
	}

	if err := decode(in, out, cli, stop, line); err != nil {
		out.Close()
		os.Remove(part)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(part)
		return errors.Wrap(err, "unable to close output")
	}

	return fsutil.Rename(part, cli.Output)
}

func decode(in io.Reader, out io.Writer, cli *CLI, stop *interrupt.Flag, line *console.Line) error {
	dec := gunzip.NewDecoder(cli.decoderOptions())
	w := bufio.NewWriter(out)

	// the sink cannot fail, so the first write error is kept for later
	var werr error
	sink := func(p []byte) {
		if werr == nil {
			_, werr = w.Write(p)
		}
	}

	var (
		read   int64
		status = gunzip.NeedMoreInput
		last   time.Time
	)

	push := func(chunk []byte) error {
		read += int64(len(chunk))
		var err error
		status, err = dec.Push(chunk, sink)
		if err != nil {
			return errors.Wrapf(err, "decode failed after %d input bytes", read)
		}
		if werr != nil {
			return errors.Wrap(werr, "unable to write output")
		}
		if time.Since(last) >= progressInterval {
			last = time.Now()
			line.Overwrite(progress(read, dec.Written()))
		}
		return nil
	}

	if cli.ChunkSize == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return errors.Wrap(err, "unable to read input")
		}
		if err := push(data); err != nil {
			return err
		}
	} else {
		buf := make([]byte, cli.ChunkSize)
		for status == gunzip.NeedMoreInput {
			if stop.IsSet() {
				line.Clear()
				return errInterrupted
			}

			n, err := in.Read(buf)
			if n > 0 {
				if perr := push(buf[:n]); perr != nil {
					line.Clear()
					return perr
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				line.Clear()
				return errors.Wrap(err, "unable to read input")
			}
		}
	}

	if status != gunzip.Done {
		line.Clear()
		return errors.Wrap(io.ErrUnexpectedEOF, "input ended before the final block")
	}

	// leave the final totals on screen
	line.Overwrite(progress(read, dec.Written()))
	line.Newline()

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "unable to write output")
	}

	if hdr, ok := dec.Header(); ok && hdr.Name != "" {
		logrus.Debugf("original name: %s", hdr.Name)
	}
	logrus.Infof("%s: %s in, %s out", color.GreenString(cli.Input), formatBytes(uint64(read)), formatBytes(dec.Written()))

	return nil
}

func progress(read int64, written uint64) string {
	return fmt.Sprintf("%s in, %s out", formatBytes(uint64(read)), formatBytes(written))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
