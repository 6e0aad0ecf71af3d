// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import "github.com/bureau-foundation/kiln/cmd/kiln/cli"

// Root returns the kiln command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "kiln",
		Summary: "Just-in-time kernel build cache",
		Description: `kiln compiles kernels into shared libraries once per distinct source
and property set, caches them under a content digest, and loads them
from the cache on every later request.

Configuration comes from --config or $KILN_CONFIG. Without either, the
cache lives in $KILN_CACHE_DIR (default ~/.cache/kiln).`,
		Environment: []cli.Variable{
			{Name: "KILN_CONFIG", Description: "config file, when --config is not given"},
			{Name: "KILN_CACHE_DIR", Description: "cache root when no config file sets one (default ~/.cache/kiln)"},
		},
		Subcommands: []*cli.Command{
			buildCommand(),
			loadCommand(),
			hashCommand(),
			dirCommand(),
			cacheCommand(),
			versionCommand(),
		},
	}
}
