// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Invocation is a process to run.
type Invocation struct {
	// Argv is the program and its arguments. Argv[0] is resolved
	// through PATH.
	Argv []string

	// Display is the command as a single line for logs and errors.
	Display string
}

// Arguments returns the compiler arguments that build source into a
// shared library at output.
func (c *Config) Arguments(source, output string) []string {
	arguments := slices.Clone(c.Flags)
	arguments = append(arguments, c.SharedFlags...)

	if c.Platform == PlatformWindows && c.Vendor == VendorMSVC {
		arguments = append(arguments, source)
		for _, directory := range c.IncludeDirs {
			arguments = append(arguments, "/I"+directory)
		}
		arguments = append(arguments, "/link")
		for _, directory := range c.LibraryDirs {
			arguments = append(arguments, "/LIBPATH:"+directory)
		}
		arguments = append(arguments, c.LinkerFlags...)
		return append(arguments, "/out:"+output)
	}

	arguments = append(arguments, source, "-o", output)
	for _, directory := range c.IncludeDirs {
		arguments = append(arguments, "-I"+directory)
	}
	for _, directory := range c.LibraryDirs {
		arguments = append(arguments, "-L"+directory)
	}
	return append(arguments, c.LinkerFlags...)
}

// Command returns the invocation compiling source into output. Without
// an environment script the compiler runs directly; with one, the
// script and the compiler share a shell so the script's environment
// reaches the compiler.
func (c *Config) Command(source, output string) Invocation {
	argv := append([]string{c.Compiler}, c.Arguments(source, output)...)
	commandLine := shellquote.Join(argv...)

	if c.EnvScript == "" {
		return Invocation{Argv: argv, Display: commandLine}
	}

	shellLine := strings.TrimSpace(c.EnvScript) + " && " + commandLine
	if c.Platform == PlatformWindows {
		return Invocation{Argv: []string{"cmd", "/C", shellLine}, Display: shellLine}
	}
	return Invocation{Argv: []string{"/bin/sh", "-c", shellLine}, Display: shellLine}
}
