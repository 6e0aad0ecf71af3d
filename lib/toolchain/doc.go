// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolchain resolves which compiler builds a kernel and with
// which flags, and runs it.
//
// Every configuration axis (language, compiler, flags, shared flags,
// linker flags, environment script) is resolved independently from an
// ordered list of [Lookup] sources, first non-empty match wins:
//
//  1. the per-build property (compiler, compiler_flags, ...)
//  2. the kiln environment override for the language (KILN_CXX, KILN_CC, ...)
//  3. the generic environment override (CXX, CC, CXXFLAGS, ...)
//  4. the platform default (g++/gcc and -O3 on Unix, cl.exe and /Ox on Windows)
//
// The tables live in precedence.go as data; [Resolution.Sources]
// records which source supplied each axis so `kiln build --verbose`
// can explain a surprising compiler choice.
//
// Once the compiler is known its vendor is detected from the
// executable name (or taken from the compiler_vendor property), and the
// vendor's language-standard flag is added to the compile flags. The
// vendor's shared-library flags are the default for the shared axis.
//
// Compilers are invoked with an argument vector, never a shell string,
// so flags containing spaces or quotes pass through untouched. The one
// exception is an environment script (compiler_env_script), which must
// be sourced into the same shell as the compiler; that invocation goes
// through /bin/sh -c (cmd /C on Windows) with POSIX quoting.
package toolchain
