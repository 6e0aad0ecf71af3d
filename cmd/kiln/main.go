// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// kiln builds, caches and loads just-in-time compiled kernels.
package main

import (
	"os"

	"github.com/bureau-foundation/kiln/cmd/kiln/commands"
	"github.com/bureau-foundation/kiln/lib/process"
)

func main() {
	process.Exit(commands.Root().Execute(os.Args[1:]))
}
