// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kernelprops defines the property bag that accompanies every
// kernel build request.
//
// Properties select the compiler, its flags, the source language, and
// whether the kernel passes through the source-to-source transform.
// Most properties affect the produced binary and are therefore part of
// the cache key. A small set ([Untracked]) only changes how a build is
// reported (silent, verbose) and is excluded from hashing so toggling
// diagnostics never causes a cache miss.
//
// Properties arrive from three places: the kernel section of the kiln
// config file, the --properties flag of the CLI (JSON with comments,
// parsed by [Parse]), and programmatic callers. [Merge] layers them.
//
// This package depends on no other kiln packages.
package kernelprops
