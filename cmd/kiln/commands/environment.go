// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiln/cmd/kiln/cli"
	"github.com/bureau-foundation/kiln/lib/cachedir"
	"github.com/bureau-foundation/kiln/lib/config"
	"github.com/bureau-foundation/kiln/lib/jit"
	"github.com/bureau-foundation/kiln/lib/kernelprops"
	"github.com/bureau-foundation/kiln/lib/toolchain"
)

// stdout receives command results. Logs go to stderr.
var stdout io.Writer = os.Stdout

// newLogger is replaced in tests.
var newLogger = cli.NewCommandLogger

// globalOptions are the flags every command accepts.
type globalOptions struct {
	configPath string
	cacheDir   string
	verbose    bool
}

func (o *globalOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.configPath, "config", "", "config file (default: $KILN_CONFIG)")
	flagSet.StringVar(&o.cacheDir, "cache-dir", "", "cache root, overriding the config file")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false, "log every build step")
}

// environment is what a command needs to work on the cache.
type environment struct {
	config  *config.Config
	logger  *slog.Logger
	builder *jit.Builder
}

func (o *globalOptions) load() (*environment, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.cacheDir != "" {
		cfg.Cache.Root = cachedir.ExpandEnvironment(o.cacheDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	aliases, err := cachedir.NewAliases(cfg.Libraries)
	if err != nil {
		return nil, err
	}

	logger := newLogger(o.verbose)
	builder := &jit.Builder{
		Locator: cachedir.Locator{Root: cfg.Cache.Root, Aliases: aliases},
		Resolver: toolchain.Resolver{
			IncludeDirs: cfg.IncludeDirs,
			LibraryDirs: cfg.LibraryDirs,
		},
		Runner:   toolchain.ExecRunner{},
		Loader:   jit.SystemLoader{},
		Logger:   logger,
		Defaults: kernelprops.Properties(cfg.Kernel),
	}
	if len(cfg.Transform.Command) > 0 {
		builder.Transformer = jit.CommandTransformer{Command: cfg.Transform.Command}
	}

	return &environment{config: cfg, logger: logger, builder: builder}, nil
}

// parseProperties reads the --properties value: inline JSON, or
// @path for a JSON file.
func parseProperties(value string) (kernelprops.Properties, error) {
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading properties: %w", err)
		}
	}
	properties, err := kernelprops.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("--properties: %w", err)
	}
	return properties, nil
}
