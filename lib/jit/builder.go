// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/kiln/lib/cachedir"
	"github.com/bureau-foundation/kiln/lib/kernelhash"
	"github.com/bureau-foundation/kiln/lib/kernelmeta"
	"github.com/bureau-foundation/kiln/lib/kernelprops"
	"github.com/bureau-foundation/kiln/lib/stage"
	"github.com/bureau-foundation/kiln/lib/toolchain"
)

// Build states, as logged.
const (
	StateRequested    = "REQUESTED"
	StateHit          = "HIT"
	StateMiss         = "MISS"
	StateSourceStaged = "SOURCE_STAGED"
	StateTransformed  = "TRANSFORMED"
	StateConfigured   = "CONFIGURED"
	StateCompiling    = "COMPILING"
	StateCommitted    = "COMMITTED"
	StateLoaded       = "LOADED"
	StateFailed       = "FAILED"
)

// Builder builds and loads kernels through a cache. The zero value of
// every field except Locator is usable: Runner defaults to
// toolchain.ExecRunner, Loader to SystemLoader and Logger to
// slog.Default(). A nil Transformer makes builds that need the
// transform fail.
//
// A Builder holds no mutable state and may be used from any number of
// goroutines.
type Builder struct {
	Locator     cachedir.Locator
	Resolver    toolchain.Resolver
	Runner      toolchain.Runner
	Transformer Transformer
	Loader      Loader
	Logger      *slog.Logger

	// Defaults are merged under every request's properties.
	Defaults kernelprops.Properties
}

// Request describes one kernel to build.
type Request struct {
	// Filename is the logical identity of the source: a path, or a
	// lib://alias/path name. It selects the cache subtree and names the
	// source in errors.
	Filename string

	// KernelName is the entry point to load.
	KernelName string

	// Source is the kernel source. When nil it is read from Filename.
	Source []byte

	Properties kernelprops.Properties
}

// Kernel is a loaded entry point.
type Kernel struct {
	Name      string
	Digest    kernelhash.Digest
	Directory string
	Binary    string

	// Metadata describes the entry point's parameters. It carries only
	// the name when the binary was built without the transform.
	Metadata kernelmeta.Kernel

	// Entry is the address of the entry point in the loaded binary.
	Entry uintptr

	// Hit reports whether the binary came from the cache.
	Hit bool

	library Library
}

// Close unloads the kernel's binary.
func (k *Kernel) Close() error {
	if k == nil || k.library == nil {
		return nil
	}
	return k.library.Close()
}

// Plan is what Build would do for a request, computed without writing
// to the cache.
type Plan struct {
	Properties kernelprops.Properties
	Digest     kernelhash.Digest
	Directory  string
	RawSource  []byte
}

// Plan computes the digest and cache entry of a request.
func (b *Builder) Plan(request Request) (*Plan, error) {
	properties := kernelprops.Merge(b.Defaults, request.Properties)

	source := request.Source
	if source == nil {
		path, err := b.Locator.Aliases.Expand(request.Filename)
		if err != nil {
			return nil, err
		}
		source, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading kernel source: %w", err)
		}
	}

	rawSource := RawSource(source, properties)
	digest := kernelhash.Compute(rawSource, properties)
	return &Plan{
		Properties: properties,
		Digest:     digest,
		Directory:  b.Locator.Directory(request.Filename, digest),
		RawSource:  rawSource,
	}, nil
}

// Build returns the loaded kernel for request, compiling it first on a
// cache miss. When the transform rejects the source and the "silent"
// property is set, Build returns a nil kernel and a nil error.
func (b *Builder) Build(ctx context.Context, request Request) (*Kernel, error) {
	plan, err := b.Plan(request)
	if err != nil {
		return nil, err
	}
	properties := plan.Properties
	log := b.buildLogger(request, plan)
	level := logLevel(properties)
	log.Debug("kernel build", "state", StateRequested)

	binary := filepath.Join(plan.Directory, cachedir.Kernel.BinaryFile())
	buildFile := filepath.Join(plan.Directory, cachedir.Kernel.BuildFile())
	if fileExists(binary) {
		log.Log(ctx, level, "kernel cache hit", "state", StateHit)
		return b.load(log, request.KernelName, plan.Digest, binary, buildFile, true)
	}
	log.Log(ctx, level, "kernel cache miss", "state", StateMiss, "properties", properties.Tracked().Names())

	transformed := properties.Bool(kernelprops.Transform, true)
	language, err := b.language(properties, transformed)
	if err != nil {
		return nil, failed(log, err)
	}

	rawSourceFile := filepath.Join(plan.Directory, cachedir.RawSourceFile(language == toolchain.LanguageCPP))
	if err := stage.WriteFile(rawSourceFile, plan.RawSource, true); err != nil {
		return nil, failed(log, fmt.Errorf("staging raw source: %w", err))
	}
	log.Debug("raw source staged", "state", StateSourceStaged, "path", b.Locator.Shortname(rawSourceFile))

	document := kernelmeta.Document{
		Digest:     kernelhash.Format(plan.Digest),
		Properties: properties.Tracked(),
		Kernels:    kernelmeta.Source{},
	}

	compileInput := rawSourceFile
	if transformed {
		kernels, err := b.transform(ctx, request, plan, rawSourceFile, properties)
		if err != nil {
			var transformErr *TransformError
			if errors.As(err, &transformErr) && properties.Bool(kernelprops.Silent, false) {
				log.Debug("transform failed, kernel skipped", "state", StateFailed, "diagnostic", transformErr.Diagnostic)
				return nil, nil
			}
			return nil, failed(log, err)
		}
		document.Kernels = kernels
		compileInput = filepath.Join(plan.Directory, cachedir.SourceFile)
		log.Debug("source transformed", "state", StateTransformed, "kernels", len(kernels))
	}

	config, err := b.Resolver.Resolve(properties, transformed)
	if err != nil {
		return nil, failed(log, fmt.Errorf("resolving compiler: %w", err))
	}
	log.Debug("compiler configured", "state", StateConfigured,
		"compiler", config.Compiler, "vendor", config.Vendor.String(), "source", config.Sources["compiler"])

	if err := b.compile(ctx, log, level, request.KernelName, config, compileInput, buildFile, binary, document); err != nil {
		return nil, failed(log, err)
	}
	return b.load(log, request.KernelName, plan.Digest, binary, buildFile, false)
}

// BuildLauncher builds and loads the launcher variant of an entry whose
// launcher source has already been written by the transform. The
// launcher is host C++: it is never transformed and its raw source is
// never staged.
func (b *Builder) BuildLauncher(ctx context.Context, filename, kernelName string, digest kernelhash.Digest, properties kernelprops.Properties) (*Kernel, error) {
	properties = kernelprops.Merge(b.Defaults, properties)
	directory := b.Locator.Directory(filename, digest)
	log := b.logger().With("kernel", kernelName, "variant", cachedir.Launcher.String(),
		"directory", b.Locator.Shortname(directory))
	level := logLevel(properties)

	binary := b.Locator.Binary(filename, digest, cachedir.Launcher)
	buildFile := filepath.Join(directory, cachedir.Launcher.BuildFile())
	if fileExists(binary) {
		log.Log(ctx, level, "launcher cache hit", "state", StateHit)
		return b.load(log, kernelName, digest, binary, buildFile, true)
	}
	log.Log(ctx, level, "launcher cache miss", "state", StateMiss)

	source := filepath.Join(directory, cachedir.LauncherSourceFile)
	if !fileExists(source) {
		return nil, failed(log, fmt.Errorf("building launcher for %q: %s does not exist", kernelName, source))
	}

	kernelDocument, err := kernelmeta.Read(filepath.Join(directory, cachedir.BuildFile))
	if err != nil {
		return nil, failed(log, err)
	}
	document := kernelmeta.Document{
		Digest:     kernelhash.Format(digest),
		Properties: properties.Tracked(),
		Kernels:    kernelDocument.Kernels,
	}

	config, err := b.Resolver.Resolve(properties, true)
	if err != nil {
		return nil, failed(log, fmt.Errorf("resolving launcher compiler: %w", err))
	}
	log.Debug("compiler configured", "state", StateConfigured, "compiler", config.Compiler)

	if err := b.compile(ctx, log, level, kernelName, config, source, buildFile, binary, document); err != nil {
		return nil, failed(log, err)
	}
	return b.load(log, kernelName, digest, binary, buildFile, false)
}

// LoadBinary loads kernelName from an already committed binary, with
// metadata from the build document beside it.
func (b *Builder) LoadBinary(binary, kernelName string) (*Kernel, error) {
	buildFile := filepath.Join(filepath.Dir(binary), cachedir.BuildFile)
	if filepath.Base(binary) == cachedir.LauncherBinaryFile {
		buildFile = filepath.Join(filepath.Dir(binary), cachedir.LauncherBuildFile)
	}
	log := b.logger().With("kernel", kernelName, "binary", binary)

	var digest kernelhash.Digest
	if parsed, err := kernelhash.Parse(filepath.Base(filepath.Dir(binary))); err == nil {
		digest = parsed
	}
	return b.load(log, kernelName, digest, binary, buildFile, true)
}

// transform runs the Transformer over the staged raw source and
// commits its output. The output is always regenerated, even when a
// previous attempt committed it, because the kernel metadata only
// exists in the transform's result.
func (b *Builder) transform(ctx context.Context, request Request, plan *Plan, rawSourceFile string, properties kernelprops.Properties) (kernelmeta.Source, error) {
	if b.Transformer == nil {
		return nil, &TransformError{
			Filename: request.Filename,
			Err:      errors.New("kernel needs the source transform but no transformer is configured"),
		}
	}

	targets := []string{
		filepath.Join(plan.Directory, cachedir.SourceFile),
		filepath.Join(plan.Directory, cachedir.LauncherSourceFile),
	}
	var kernels kernelmeta.Source
	err := stage.Files(targets, false, func(tempPaths []string) (bool, error) {
		result, err := b.Transformer.Transform(ctx, TransformRequest{
			Input:          rawSourceFile,
			Output:         tempPaths[0],
			LauncherOutput: tempPaths[1],
			Properties:     properties,
		})
		if err != nil {
			return false, &TransformError{Filename: request.Filename, Diagnostic: err.Error(), Err: err}
		}
		kernels = result
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if kernels == nil {
		kernels = kernelmeta.Source{}
	}
	return kernels, nil
}

// compile stages the build document and the binary together. The
// document is listed first so it is renamed into place before the
// binary: a visible binary always has its document. If both already
// exist (a concurrent builder finished first) nothing runs.
func (b *Builder) compile(ctx context.Context, log *slog.Logger, level slog.Level, kernelName string, config *toolchain.Config, input, buildFile, binary string, document kernelmeta.Document) error {
	return stage.Files([]string{buildFile, binary}, true, func(tempPaths []string) (bool, error) {
		if err := kernelmeta.WriteTemp(tempPaths[0], document); err != nil {
			return false, err
		}

		invocation := config.Command(input, tempPaths[1])
		log.Log(ctx, level, "compiling kernel", "state", StateCompiling, "command", invocation.Display)
		result, err := b.runner().Run(ctx, invocation)
		if err != nil {
			if ctx.Err() != nil {
				return false, fmt.Errorf("compiling kernel %q: %w", kernelName, ctx.Err())
			}
			output := err.Error()
			if len(result.Output) > 0 {
				output += "\n" + string(result.Output)
			}
			return false, &CompileError{
				Kernel:   kernelName,
				Command:  invocation.Display,
				Output:   output,
				ExitCode: -1,
			}
		}
		if result.ExitCode != 0 {
			return false, &CompileError{
				Kernel:   kernelName,
				Command:  invocation.Display,
				Output:   string(result.Output),
				ExitCode: result.ExitCode,
			}
		}
		log.Debug("kernel compiled", "state", StateCommitted)
		return true, nil
	})
}

// load opens binary and resolves the kernel's entry point. A missing
// build document is not an error: the kernel then has name-only
// metadata.
func (b *Builder) load(log *slog.Logger, kernelName string, digest kernelhash.Digest, binary, buildFile string, hit bool) (*Kernel, error) {
	document, err := kernelmeta.Read(buildFile)
	if err != nil {
		return nil, failed(log, err)
	}
	metadata := document.Kernel(kernelName)

	library, err := b.loader().Open(binary)
	if err != nil {
		return nil, failed(log, &LoadError{Kernel: kernelName, Binary: binary, Err: err})
	}
	entry, err := library.Lookup(metadata.EntryPoint())
	if err != nil {
		library.Close()
		return nil, failed(log, &LoadError{Kernel: kernelName, Binary: binary, Err: err})
	}

	log.Debug("kernel loaded", "state", StateLoaded, "symbol", metadata.EntryPoint())
	return &Kernel{
		Name:      kernelName,
		Digest:    digest,
		Directory: filepath.Dir(binary),
		Binary:    binary,
		Metadata:  metadata,
		Entry:     entry,
		Hit:       hit,
		library:   library,
	}, nil
}

// language resolves only the language axis, which decides the raw
// source name before the full compiler configuration is needed.
func (b *Builder) language(properties kernelprops.Properties, transformed bool) (toolchain.Language, error) {
	if transformed {
		return toolchain.LanguageCPP, nil
	}
	getenv := b.Resolver.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	name, source := toolchain.First(toolchain.LanguageLookups, toolchain.Inputs{Properties: properties, Getenv: getenv})
	language, err := toolchain.ParseLanguage(name)
	if err != nil {
		return language, fmt.Errorf("%s: %w", source, err)
	}
	return language, nil
}

func (b *Builder) buildLogger(request Request, plan *Plan) *slog.Logger {
	return b.logger().With(
		"kernel", request.KernelName,
		"digest", plan.Digest.Short(),
		"directory", b.Locator.Shortname(plan.Directory),
	)
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) runner() toolchain.Runner {
	if b.Runner != nil {
		return b.Runner
	}
	return toolchain.ExecRunner{}
}

func (b *Builder) loader() Loader {
	if b.Loader != nil {
		return b.Loader
	}
	return SystemLoader{}
}

// logLevel is Info for kernels built with the "verbose" property and
// Debug otherwise.
func logLevel(properties kernelprops.Properties) slog.Level {
	if properties.Bool(kernelprops.Verbose, false) {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func failed(log *slog.Logger, err error) error {
	log.Debug("kernel build failed", "state", StateFailed, "error", err)
	return err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
