// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiln/cmd/kiln/cli"
	"github.com/bureau-foundation/kiln/lib/jit"
	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

type buildOptions struct {
	globalOptions
	source     string
	kernel     string
	properties string
	launcher   bool
}

func buildCommand() *cli.Command {
	var options buildOptions
	return &cli.Command{
		Name:    "build",
		Summary: "Build (or load from cache) a kernel",
		Description: `Build a kernel and load it, compiling only on a cache miss.

The kernel's cache entry is chosen by the digest of its source and
tracked properties. On a hit the cached binary is loaded; on a miss the
source is transformed (unless "transform": false), compiled, committed
and then loaded. The binary path and entry point are printed.

A kernel whose transform fails with the "silent" property set is
skipped: nothing is printed and kiln exits with status 2.`,
		Examples: []cli.Example{
			{
				Description: "Build a kernel with an explicit compiler",
				Command:     `kiln build --source addVectors.okl --kernel addVectors --properties '{"compiler": "clang++", "compiler_flags": "-O3"}'`,
			},
			{
				Description: "Build a plain C kernel without the transform",
				Command:     `kiln build --source scale.c --kernel scale --properties '{"transform": false, "compiler_language": "c"}'`,
			},
		},
		Environment: compilerEnvironment,
		NoArgs:      true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&options.source, "source", "", "kernel source file, or lib://alias/path (required)")
			flagSet.StringVar(&options.kernel, "kernel", "", "kernel entry point name (required)")
			flagSet.StringVar(&options.properties, "properties", "", "build properties as JSON, or @file")
			flagSet.BoolVar(&options.launcher, "launcher", false, "also build the host launcher")
			return flagSet
		},
		Run: func(args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return runBuild(ctx, options)
		},
	}
}

func runBuild(ctx context.Context, options buildOptions) error {
	if options.source == "" || options.kernel == "" {
		return fmt.Errorf("--source and --kernel are required")
	}
	properties, err := parseProperties(options.properties)
	if err != nil {
		return err
	}
	env, err := options.load()
	if err != nil {
		return err
	}
	if err := env.config.EnsurePaths(); err != nil {
		return err
	}

	kernel, err := env.builder.Build(ctx, jit.Request{
		Filename:   options.source,
		KernelName: options.kernel,
		Properties: properties,
	})
	if err != nil {
		return err
	}
	if kernel == nil {
		env.logger.Info("kernel skipped after a transform failure", "kernel", options.kernel)
		return &cli.ExitError{Code: 2}
	}
	defer kernel.Close()
	printKernel(kernel)

	if !options.launcher {
		return nil
	}
	launcherProperties := kernelprops.Merge(kernelprops.Properties(env.config.LauncherProperties()), properties)
	launcher, err := env.builder.BuildLauncher(ctx, options.source, options.kernel, kernel.Digest, launcherProperties)
	if err != nil {
		return err
	}
	defer launcher.Close()
	printKernel(launcher)
	return nil
}

func printKernel(kernel *jit.Kernel) {
	state := "built"
	if kernel.Hit {
		state = "cached"
	}
	fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", kernel.Name, state, kernel.Metadata.EntryPoint(), kernel.Binary)
}

// compilerEnvironment is shown in the help of commands that compile.
// Kernel properties take precedence over every variable.
var compilerEnvironment = []cli.Variable{
	{Name: "KILN_CXX, CXX", Description: "C++ compiler (default g++)"},
	{Name: "KILN_CC, CC", Description: "C compiler for compiler_language c (default gcc)"},
	{Name: "KILN_CXXFLAGS, CXXFLAGS", Description: "C++ compiler flags (default -O3)"},
	{Name: "KILN_CFLAGS, CFLAGS", Description: "C compiler flags (default -O3)"},
	{Name: "KILN_LDFLAGS, LDFLAGS", Description: "linker flags"},
	{Name: "KILN_COMPILER_SHARED_FLAGS", Description: "shared library flags (default per compiler vendor)"},
	{Name: "KILN_COMPILER_LANGUAGE", Description: "cpp or c, for kernels built without the transform"},
	{Name: "KILN_COMPILER_ENV_SCRIPT", Description: "script sourced in the compiler's shell"},
}
