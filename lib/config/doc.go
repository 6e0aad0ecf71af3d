// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for kiln.
//
// Configuration comes from a single file named by either the
// KILN_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no file discovery. Without a file the
// [Default] configuration applies: the cache lives in
// $KILN_CACHE_DIR, or ~/.cache/kiln when that is unset.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${KILN_ROOT} (the cache root) and ${VAR:-default}
// patterns are expanded. Compiler selection is not configured here:
// the kernel property defaults in the file sit below per-build
// properties, and the KILN_CXX family of environment variables is
// read by the toolchain package.
//
// Key exports:
//
//   - [Config] -- cache root, library aliases, default kernel
//     properties, include and library directories, transform command
//   - [Default] -- a Config with no file applied
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other kiln packages.
package config
