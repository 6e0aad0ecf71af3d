// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dynload opens compiled kernel binaries and resolves entry
// points by name.
//
// The two steps fail differently and callers care which one failed:
// [OpenError] means the binary could not be loaded at all (missing
// file, wrong format, loader refusal), while [SymbolError] means it
// loaded but the expected entry point is absent, which points at a
// mismatch between the compiler output and the transform metadata
// rather than an I/O problem.
//
// On Linux, macOS, and FreeBSD the platform loader is reached through
// purego's dlopen/dlsym bindings, so no cgo toolchain is needed to
// build kiln. On Windows LoadLibrary/GetProcAddress are used through
// golang.org/x/sys/windows.
package dynload
