// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kernelhash computes the content digest that addresses a
// kernel build in the cache.
//
// A digest covers two independent inputs: the kernel source bytes and
// the set of tracked build properties. Each property is hashed on its
// own and the per-property hashes are combined with XOR, so the
// properties behave as an unordered set: permuting them never changes
// the digest, while adding, removing, or changing any tracked property
// does. Display-only properties ([kernelprops.Untracked]) are skipped.
//
// All hashing is BLAKE3 in keyed mode with a distinct domain key per
// role (source, property, digest), so a source file that happens to
// equal some property encoding cannot alias it.
//
// Collisions are never checked. Two inputs with the same 256-bit digest
// share a cache directory; the cache treats the digest as authoritative.
package kernelhash
