// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiln/cmd/kiln/cli"
	"github.com/bureau-foundation/kiln/lib/cachepack"
	"github.com/bureau-foundation/kiln/lib/stage"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Move kernel caches between machines",
		Subcommands: []*cli.Command{
			packCommand(),
			unpackCommand(),
		},
	}
}

type packOptions struct {
	globalOptions
	directory string
	output    string
	codec     string
}

func packCommand() *cli.Command {
	var options packOptions
	return &cli.Command{
		Name:    "pack",
		Summary: "Write a cache tree to a compressed archive",
		Description: `Archive every committed file under a cache directory. Temporary files
left by interrupted builds are skipped. The archive is staged and
renamed into place, so a partial archive is never visible.`,
		Examples: []cli.Example{
			{
				Description: "Pack the configured cache with zstd",
				Command:     "kiln cache pack --output kernels.kiln",
			},
		},
		NoArgs: true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&options.directory, "dir", "", "directory to pack (default: the cache root)")
			flagSet.StringVarP(&options.output, "output", "o", "", "archive path, or - for stdout (required)")
			flagSet.StringVar(&options.codec, "codec", "zstd", "compression: zstd, lz4 or none")
			return flagSet
		},
		Run: func(args []string) error {
			return runPack(options)
		},
	}
}

func runPack(options packOptions) error {
	if options.output == "" {
		return fmt.Errorf("--output is required")
	}
	codec, err := cachepack.ParseCodec(options.codec)
	if err != nil {
		return err
	}
	env, err := options.load()
	if err != nil {
		return err
	}
	directory := options.directory
	if directory == "" {
		directory = env.config.Cache.Root
	}

	var stats cachepack.Stats
	if options.output == "-" {
		stats, err = cachepack.Pack(directory, stdout, codec)
	} else {
		err = stage.File(options.output, false, func(tempPath string) (bool, error) {
			file, err := os.Create(tempPath)
			if err != nil {
				return false, err
			}
			stats, err = cachepack.Pack(directory, file, codec)
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			return err == nil, err
		})
	}
	if err != nil {
		return fmt.Errorf("packing %s: %w", directory, err)
	}
	env.logger.Info("cache packed", "directory", directory, "files", stats.Files, "bytes", stats.Bytes, "codec", codec.String())
	return nil
}

type unpackOptions struct {
	globalOptions
	directory string
	input     string
}

func unpackCommand() *cli.Command {
	var options unpackOptions
	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract a cache archive",
		Description: `Extract an archive written by "kiln cache pack". Files that already
exist are left alone, so unpacking into a cache in use is safe.`,
		NoArgs: true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unpack", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVarP(&options.input, "input", "i", "", "archive path, or - for stdin (required)")
			flagSet.StringVar(&options.directory, "dir", "", "destination (default: the cache root)")
			return flagSet
		},
		Run: func(args []string) error {
			return runUnpack(options, os.Stdin)
		},
	}
}

func runUnpack(options unpackOptions, stdin io.Reader) error {
	if options.input == "" {
		return fmt.Errorf("--input is required")
	}
	env, err := options.load()
	if err != nil {
		return err
	}
	directory := options.directory
	if directory == "" {
		if err := env.config.EnsurePaths(); err != nil {
			return err
		}
		directory = env.config.Cache.Root
	}

	input := stdin
	if options.input != "-" {
		file, err := os.Open(options.input)
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	stats, err := cachepack.Unpack(input, directory)
	if err != nil {
		return fmt.Errorf("unpacking into %s: %w", directory, err)
	}
	env.logger.Info("cache unpacked", "directory", directory, "files", stats.Files, "bytes", stats.Bytes, "skipped", stats.Skipped)
	return nil
}
