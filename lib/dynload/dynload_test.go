// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dynload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary")
	_, err := Open(path)

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Open error = %v, want *OpenError", err)
	}
	if openErr.Path != path {
		t.Errorf("OpenError.Path = %q, want %q", openErr.Path, path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("OpenError should wrap fs.ErrNotExist, got %v", err)
	}
}

func TestOpenDirectory(t *testing.T) {
	var openErr *OpenError
	if _, err := Open(t.TempDir()); !errors.As(err, &openErr) {
		t.Fatalf("Open(directory) error = %v, want *OpenError", err)
	}
}

func TestOpenNotALibrary(t *testing.T) {
	// A regular file that is not a shared object is refused by the
	// platform loader.
	path := filepath.Join(t.TempDir(), "binary")
	if err := os.WriteFile(path, []byte("this is not an ELF, Mach-O, or PE file"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	library, err := Open(path)
	if err == nil {
		library.Close()
		t.Fatal("Open should refuse a file that is not a shared library")
	}
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Open error = %v, want *OpenError", err)
	}
	var symbolErr *SymbolError
	if errors.As(err, &symbolErr) {
		t.Error("an open failure must not be reported as a symbol failure")
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("undefined symbol")
	symbolErr := &SymbolError{Path: "/c/binary", Symbol: "addVectors", Err: cause}
	if got, want := symbolErr.Error(), `resolving symbol "addVectors" in /c/binary: undefined symbol`; got != want {
		t.Errorf("SymbolError = %q, want %q", got, want)
	}
	if !errors.Is(symbolErr, cause) {
		t.Error("SymbolError should unwrap to its cause")
	}
}
