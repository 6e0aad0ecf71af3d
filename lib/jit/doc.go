// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jit builds kernels just in time and caches the binaries.
//
// A [Builder] turns a kernel source and its properties into a loaded
// entry point. The source and the tracked properties are hashed
// ([kernelhash.Compute]) to pick a cache entry directory
// ([cachedir.Locator]). If the entry's binary exists the build is a
// hit and the binary is loaded directly. Otherwise the raw source is
// staged into the entry, run through the [Transformer] when the
// kernel needs one, and compiled with the resolved
// [toolchain.Config]. The binary and its metadata document are
// committed together with [stage.Files].
//
// Independent processes may build the same entry at the same time.
// There is no lock: each builder writes private temporary files and
// commits by rename, and a rename onto a target another builder
// already committed counts as success. Redundant compiles are the
// only cost.
//
// Failures are typed. [TransformError] means the kernel-language
// transform rejected the source, [CompileError] that the compiler
// exited non-zero, and [LoadError] that the binary could not be opened
// or lacks the entry point. A transform failure with the "silent"
// property set is not an error: Build returns a nil kernel.
package jit
