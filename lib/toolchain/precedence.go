// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import "github.com/bureau-foundation/kiln/lib/kernelprops"

// Inputs is what a Lookup may consult.
type Inputs struct {
	Properties kernelprops.Properties
	Getenv     func(string) string
	Platform   Platform

	// Language is set once the language axis has been resolved; lookups
	// for later axes pick their language-specific variant from it.
	Language Language

	// Vendor is set once the compiler is known.
	Vendor Vendor
}

// Lookup is one precedence source for a configuration axis. An empty
// result means "no opinion" and the next source is consulted.
type Lookup struct {
	// Source names the source for diagnostics, e.g. "property compiler"
	// or "env KILN_CXX".
	Source func(Inputs) string
	Value  func(Inputs) string
}

// First evaluates lookups in order and returns the first non-empty
// value with the name of its source. Both are empty when no source has
// an opinion.
func First(lookups []Lookup, inputs Inputs) (value, source string) {
	for _, lookup := range lookups {
		if value := lookup.Value(inputs); value != "" {
			return value, lookup.Source(inputs)
		}
	}
	return "", ""
}

// Precedence tables, one per axis, highest priority first.
var (
	LanguageLookups = []Lookup{
		property(kernelprops.CompilerLanguage),
		environment("KILN_COMPILER_LANGUAGE", "KILN_COMPILER_LANGUAGE"),
		constant("cpp"),
	}

	CompilerLookups = []Lookup{
		property(kernelprops.Compiler),
		environment("KILN_CXX", "KILN_CC"),
		environment("CXX", "CC"),
		platformDefault(languageValue{cpp: "g++", c: "gcc"}, languageValue{cpp: "cl.exe", c: "cl.exe"}),
	}

	FlagsLookups = []Lookup{
		property(kernelprops.CompilerFlags),
		environment("KILN_CXXFLAGS", "KILN_CFLAGS"),
		environment("CXXFLAGS", "CFLAGS"),
		platformDefault(languageValue{cpp: "-O3", c: "-O3"}, languageValue{cpp: "/Ox", c: "/Ox"}),
	}

	SharedFlagsLookups = []Lookup{
		property(kernelprops.CompilerSharedFlags),
		environment("KILN_COMPILER_SHARED_FLAGS", "KILN_COMPILER_SHARED_FLAGS"),
		vendorShared(),
	}

	LinkerFlagsLookups = []Lookup{
		property(kernelprops.CompilerLinkerFlags),
		environment("KILN_LDFLAGS", "KILN_LDFLAGS"),
		environment("LDFLAGS", "LDFLAGS"),
	}

	EnvScriptLookups = []Lookup{
		property(kernelprops.CompilerEnvScript),
		environment("KILN_COMPILER_ENV_SCRIPT", "KILN_COMPILER_ENV_SCRIPT"),
	}
)

type languageValue struct {
	cpp string
	c   string
}

func (v languageValue) pick(language Language) string {
	if language == LanguageC {
		return v.c
	}
	return v.cpp
}

func property(name string) Lookup {
	return Lookup{
		Source: func(Inputs) string { return "property " + name },
		Value:  func(inputs Inputs) string { return inputs.Properties.String(name) },
	}
}

func environment(cppName, cName string) Lookup {
	names := languageValue{cpp: cppName, c: cName}
	return Lookup{
		Source: func(inputs Inputs) string { return "env " + names.pick(inputs.Language) },
		Value: func(inputs Inputs) string {
			if inputs.Getenv == nil {
				return ""
			}
			return inputs.Getenv(names.pick(inputs.Language))
		},
	}
}

func constant(value string) Lookup {
	return Lookup{
		Source: func(Inputs) string { return "default" },
		Value:  func(Inputs) string { return value },
	}
}

func platformDefault(unix, windows languageValue) Lookup {
	return Lookup{
		Source: func(inputs Inputs) string { return inputs.Platform.String() + " default" },
		Value: func(inputs Inputs) string {
			if inputs.Platform == PlatformWindows {
				return windows.pick(inputs.Language)
			}
			return unix.pick(inputs.Language)
		},
	}
}

func vendorShared() Lookup {
	return Lookup{
		Source: func(inputs Inputs) string { return inputs.Vendor.String() + " default" },
		Value:  func(inputs Inputs) string { return inputs.Vendor.SharedFlags() },
	}
}
