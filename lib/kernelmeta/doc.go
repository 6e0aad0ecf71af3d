// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kernelmeta reads and writes the metadata document stored
// beside a compiled kernel (build.json, or launcher_build.json for the
// launcher variant).
//
// The document records, per kernel name, the entry-point symbol and the
// parameter descriptors the source-to-source transform emitted, plus
// the digest and tracked properties of the build that produced it. A
// missing document is not an error: kernels compiled without the
// transform never get one, and [Read] returns an empty [Document].
//
// Documents are JSON. [Read] accepts comments and trailing commas so
// an operator can annotate one by hand without breaking the cache.
package kernelmeta
