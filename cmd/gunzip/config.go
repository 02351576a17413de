package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/JoshVarga/gunzip"
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
	EnvVarPrefix = "GUNZIP"
	PartSuffix   = ".part"

	MaxChunkSize = 64 << 20
)

// VERSION gets set during build
var VERSION = "0.0.0"

type CLI struct {
	Input     string `kong:"arg,help='Path to the gzip file',type='existingfile'"`
	Output    string `kong:"help='Output file (default: input without .gz)',type='path',short='o'"`
	ChunkSize int    `kong:"help='Bytes pushed per read, 0 reads the whole file at once',default='16384',short='s'"`
	Force     bool   `kong:"help='Overwrite an existing output file',short='f'"`
	Lenient   bool   `kong:"help='Do not verify stored block lengths',short='l'"`
	NoColor   bool   `kong:"help='Disable color output',short='C'"`

	Debug   bool             `kong:"help='Enable debug output',short='d'"`
	Quiet   bool             `kong:"help='Disable progress and settings output',short='q'"`
	Version kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`
}

func NewCLI() (*CLI, error) {
	// Attempt to load .env
	_ = godotenv.Load(".env")

	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("gunzip"),
		kong.Description("Streaming gzip decompressor"),
		kong.UsageOnError(),
		kong.DefaultEnvars(EnvVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": VERSION,
		})

	if err := validateCLI(cli); err != nil {
		return nil, errors.Wrap(err, "error validating args")
	}

	return cli, nil
}

func validateCLI(cli *CLI) error {
	if cli == nil {
		return errors.New("config cannot be nil")
	}

	if cli.Input == "" {
		return errors.New("input cannot be empty")
	}

	if cli.ChunkSize < 0 || cli.ChunkSize > MaxChunkSize {
		return errors.Errorf("chunk size must be between 0 and %d", MaxChunkSize)
	}

	if cli.Output == "" {
		cli.Output = outputName(cli.Input)
	}

	if cli.Output == cli.Input {
		return errors.New("output would overwrite the input")
	}

	if !cli.Force {
		if _, err := os.Stat(cli.Output); err == nil {
			return errors.Errorf("output %s already exists (use --force)", cli.Output)
		}
	}

	return nil
}

// outputName strips a .gz or .tgz suffix, or appends .out when there is none.
func outputName(input string) string {
	switch {
	case strings.HasSuffix(input, ".tgz"):
		return strings.TrimSuffix(input, ".tgz") + ".tar"
	case strings.HasSuffix(input, ".gz"):
		return strings.TrimSuffix(input, ".gz")
	default:
		return input + ".out"
	}
}

func (cli *CLI) decoderOptions() *gunzip.Options {
	opts := gunzip.DefaultOptions()
	opts.VerifyStoredLength = !cli.Lenient
	if cli.ChunkSize > 0 {
		opts.ChunkSize = cli.ChunkSize
	}
	return opts
}
