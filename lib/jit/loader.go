// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import "github.com/bureau-foundation/kiln/lib/dynload"

// Library is an opened kernel binary.
type Library interface {
	Lookup(symbol string) (uintptr, error)
	Close() error
}

// Loader opens kernel binaries. Implementations report open failures
// as *dynload.OpenError and missing symbols as *dynload.SymbolError so
// the two stay distinguishable through [LoadError].
type Loader interface {
	Open(path string) (Library, error)
}

// SystemLoader loads binaries with the platform dynamic loader.
type SystemLoader struct{}

// Open implements Loader.
func (SystemLoader) Open(path string) (Library, error) {
	library, err := dynload.Open(path)
	if err != nil {
		return nil, err
	}
	return library, nil
}
