// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec wraps fxamacker/cbor with the one encoder configuration
// kiln relies on: Core Deterministic Encoding. Property values are
// arbitrary JSON/YAML-shaped data (nested maps, lists, scalars); the
// content addressor feeds their deterministic CBOR encoding into the
// hash so map iteration order can never change a digest.
//
// Consumers import this package rather than fxamacker/cbor directly.
package codec
