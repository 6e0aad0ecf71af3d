// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the kiln command tree: build, hash, dir,
// cache pack/unpack and version. Every command loads the configuration
// the same way (--config, else KILN_CONFIG, else defaults) and builds
// its [jit.Builder] from it.
package commands
