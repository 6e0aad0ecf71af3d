// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stage commits files atomically by writing them under private
// temporary names and renaming them into place only after the producer
// succeeds.
//
// Every temporary path lives in the same directory as its target, so
// the final rename never crosses a filesystem boundary and readers see
// either no file or the complete file. The temporary name is a random
// 16-hex-character prefix followed by the target's base name:
//
//	<dir>/3f9a0c1d2b4e5f60.binary
//
// Concurrent stagers (in this process or any other) therefore never
// share a temporary file.
//
// There is no locking. Two processes staging the same target both do
// the work and both rename; whichever rename lands second replaces an
// identical file or, where the platform refuses to replace, fails with
// the target already present. [Files] treats that as success.
//
// Temporary files are not removed when a producer fails. Names are
// never reused, so leftovers are inert; removing them is left to
// whoever manages the cache root.
package stage
