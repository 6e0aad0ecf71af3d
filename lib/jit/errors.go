// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import (
	"fmt"
	"strings"
)

// TransformError reports that the source-to-source transform rejected
// a kernel source.
type TransformError struct {
	// Filename is the logical source name of the request.
	Filename string

	// Diagnostic is the transform's human-readable explanation.
	Diagnostic string

	// Err is the underlying error, when the transform could not run
	// at all rather than rejecting the source.
	Err error
}

func (e *TransformError) Error() string {
	diagnostic := strings.TrimSpace(e.Diagnostic)
	if diagnostic == "" && e.Err != nil {
		diagnostic = e.Err.Error()
	}
	return fmt.Sprintf("transforming %s: %s", e.Filename, diagnostic)
}

func (e *TransformError) Unwrap() error { return e.Err }

// CompileError reports a compiler that did not produce a binary. Output
// is the compiler's combined stdout and stderr, unmodified. A compiler
// that could not be started or was killed has ExitCode -1, and Output
// begins with the reason.
type CompileError struct {
	Kernel   string
	Command  string
	Output   string
	ExitCode int
}

func (e *CompileError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("compiling kernel %q: compiler did not run to completion\ncommand: %s\n%s",
			e.Kernel, e.Command, e.Output)
	}
	return fmt.Sprintf("compiling kernel %q: compiler exited with status %d\ncommand: %s\n%s",
		e.Kernel, e.ExitCode, e.Command, e.Output)
}

// LoadError reports a committed binary that could not be used: either
// it failed to open (Err is a *dynload.OpenError) or it lacks the
// kernel's entry point (Err is a *dynload.SymbolError).
type LoadError struct {
	Kernel string
	Binary string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading kernel %q from %s: %v", e.Kernel, e.Binary, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
