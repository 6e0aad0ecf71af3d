// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cachepack moves kernel cache trees between machines as a
// single compressed archive.
//
// An archive is a short header (magic plus a codec byte) followed by a
// tar stream compressed with zstd, lz4, or nothing. [Pack] skips the
// stager's temporary files and orders each entry directory so its
// binaries come after every other artifact. [Unpack] commits each file
// through the stager and never replaces a file that already exists, so
// unpacking into a live cache is safe while builders run: a binary
// only becomes visible after the build document beside it.
package cachepack
