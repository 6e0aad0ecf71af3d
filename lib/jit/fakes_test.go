// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/bureau-foundation/kiln/lib/cachedir"
	"github.com/bureau-foundation/kiln/lib/dynload"
	"github.com/bureau-foundation/kiln/lib/kernelmeta"
	"github.com/bureau-foundation/kiln/lib/toolchain"
)

// spyRunner records compiler invocations. Unless run is set, each
// invocation "compiles" by writing the configured symbols, one per
// line, to the -o output path. The fake loader reads them back.
type spyRunner struct {
	mu          sync.Mutex
	invocations []toolchain.Invocation
	symbols     []string
	run         func(invocation toolchain.Invocation, output string) (toolchain.Result, error)
}

func (r *spyRunner) Run(_ context.Context, invocation toolchain.Invocation) (toolchain.Result, error) {
	r.mu.Lock()
	r.invocations = append(r.invocations, invocation)
	r.mu.Unlock()

	output := outputPath(invocation)
	if r.run != nil {
		return r.run(invocation, output)
	}
	return writeSymbols(output, r.symbols)
}

func (r *spyRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invocations)
}

func writeSymbols(path string, symbols []string) (toolchain.Result, error) {
	if err := os.WriteFile(path, []byte(strings.Join(symbols, "\n")), 0o755); err != nil {
		return toolchain.Result{}, err
	}
	return toolchain.Result{}, nil
}

func outputPath(invocation toolchain.Invocation) string {
	index := slices.Index(invocation.Argv, "-o")
	if index < 0 || index+1 >= len(invocation.Argv) {
		panic(fmt.Sprintf("no -o in %q", invocation.Argv))
	}
	return invocation.Argv[index+1]
}

// fakeLoader treats a "binary" as a newline-separated symbol list.
type fakeLoader struct{}

func (fakeLoader) Open(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dynload.OpenError{Path: path, Err: err}
	}
	return &fakeLibrary{path: path, symbols: strings.Split(string(data), "\n")}, nil
}

type fakeLibrary struct {
	path    string
	symbols []string
	closed  bool
}

func (l *fakeLibrary) Lookup(symbol string) (uintptr, error) {
	index := slices.Index(l.symbols, symbol)
	if index < 0 {
		return 0, &dynload.SymbolError{Path: l.path, Symbol: symbol, Err: fs.ErrNotExist}
	}
	return uintptr(0x1000 + index), nil
}

func (l *fakeLibrary) Close() error {
	l.closed = true
	return nil
}

// fakeTransformer copies the input to the output, writes a launcher
// source when launcher is set, and returns kernels. A non-empty
// diagnostic makes it fail instead.
type fakeTransformer struct {
	mu         sync.Mutex
	count      int
	kernels    kernelmeta.Source
	launcher   bool
	diagnostic string
}

func (f *fakeTransformer) Transform(_ context.Context, request TransformRequest) (kernelmeta.Source, error) {
	f.mu.Lock()
	f.count++
	f.mu.Unlock()

	if f.diagnostic != "" {
		return nil, errors.New(f.diagnostic)
	}
	source, err := os.ReadFile(request.Input)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(request.Output, append([]byte("// transformed\n"), source...), 0o644); err != nil {
		return nil, err
	}
	if f.launcher {
		if err := os.WriteFile(request.LauncherOutput, []byte("// launcher\n"), 0o644); err != nil {
			return nil, err
		}
	}
	return f.kernels, nil
}

func (f *fakeTransformer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBuilder returns a Builder rooted in a temporary directory that
// sees an empty environment and Unix platform defaults.
func newTestBuilder(t *testing.T, runner toolchain.Runner, transformer Transformer) *Builder {
	t.Helper()
	platform := toolchain.PlatformUnix
	builder := &Builder{
		Locator:  cachedir.Locator{Root: t.TempDir()},
		Resolver: toolchain.Resolver{Getenv: func(string) string { return "" }, Platform: &platform},
		Runner:   runner,
		Loader:   fakeLoader{},
		Logger:   quietLogger(),
	}
	if transformer != nil {
		builder.Transformer = transformer
	}
	return builder
}
