// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cachedir maps a kernel's logical filename and content digest
// to its canonical directory under the cache root, and names the
// artifacts kept inside that directory.
//
// Layout under the root:
//
//	<root>/cache/<digest>/                     plain kernels
//	<root>/libraries/<alias>/<digest>/         kernels from a library alias
//
// and inside an entry directory:
//
//	raw_source.cpp | raw_source.c   source as submitted, with header
//	source.cpp                      transform output
//	launcher_source.cpp             host-side launcher source
//	build.json                      kernel metadata document
//	launcher_build.json             launcher metadata document
//	binary | binary.dll             compiled kernel
//	launcher_binary[.dll]           compiled launcher
//
// The binary's existence is the only completion signal. Other files in
// a directory may be leftovers of an interrupted build and carry no
// meaning on their own.
//
// Library aliases let kernels be referenced as lib://<alias>/<path>.
// [Aliases] is an immutable value built once during setup and shared
// read-only afterwards, so there is no process-global registry and no
// locking.
package cachedir
