// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dynload

import (
	"fmt"
	"os"
	"sync"
)

// OpenError reports a binary that could not be loaded.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// SymbolError reports an entry point missing from a loaded binary.
type SymbolError struct {
	Path   string
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("resolving symbol %q in %s: %v", e.Symbol, e.Path, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

// Library is a loaded binary.
type Library struct {
	path   string
	handle libraryHandle

	closeOnce sync.Once
	closeErr  error
}

// Open loads the shared library at path.
func Open(path string) (*Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("not a regular file")}
	}

	handle, err := openLibrary(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Library{path: path, handle: handle}, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// Lookup returns the address of the named symbol.
func (l *Library) Lookup(symbol string) (uintptr, error) {
	address, err := lookupSymbol(l.handle, symbol)
	if err != nil {
		return 0, &SymbolError{Path: l.path, Symbol: symbol, Err: err}
	}
	if address == 0 {
		return 0, &SymbolError{Path: l.path, Symbol: symbol, Err: fmt.Errorf("symbol resolved to a nil address")}
	}
	return address, nil
}

// Close unloads the library. Symbols obtained from it must not be used
// afterwards. Close is idempotent.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = closeLibrary(l.handle)
	})
	return l.closeErr
}
