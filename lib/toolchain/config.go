// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

// Language is the source language handed to the compiler.
type Language int

const (
	LanguageCPP Language = iota
	LanguageC
)

// String returns "cpp" or "c".
func (l Language) String() string {
	if l == LanguageC {
		return "c"
	}
	return "cpp"
}

// ParseLanguage parses a compiler_language value.
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpp", "c++", "cxx":
		return LanguageCPP, nil
	case "c":
		return LanguageC, nil
	default:
		return LanguageCPP, fmt.Errorf("unsupported compiler language %q (want cpp or c)", name)
	}
}

// Platform is the family of platform defaults to apply.
type Platform int

const (
	PlatformUnix Platform = iota
	PlatformWindows
)

// String returns "unix" or "windows".
func (p Platform) String() string {
	if p == PlatformWindows {
		return "windows"
	}
	return "unix"
}

// HostPlatform returns the platform family of the running process.
func HostPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformUnix
}

// Config is a fully resolved compiler configuration for one build
// attempt. It is never persisted.
type Config struct {
	Language    Language
	Compiler    string
	Vendor      Vendor
	Flags       []string
	SharedFlags []string
	LinkerFlags []string
	EnvScript   string

	// IncludeDirs and LibraryDirs become -I and -L arguments.
	IncludeDirs []string
	LibraryDirs []string

	// Platform decides the command line shape.
	Platform Platform

	// Sources records which precedence source supplied each axis,
	// keyed by axis name.
	Sources map[string]string
}

// Resolver resolves Configs. The zero value reads the process
// environment and uses the host platform.
type Resolver struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// Platform defaults to HostPlatform().
	Platform *Platform

	// IncludeDirs and LibraryDirs are added to every build.
	IncludeDirs []string
	LibraryDirs []string
}

// Resolve builds the Config for a kernel with the given properties.
// transformed reports whether the compile input is transform output:
// transformed kernels are always C++, and only untransformed sources
// pick up KILN_INCLUDE_PATH / KILN_LIBRARY_PATH.
func (r Resolver) Resolve(properties kernelprops.Properties, transformed bool) (*Config, error) {
	inputs := Inputs{
		Properties: properties,
		Getenv:     r.Getenv,
		Platform:   HostPlatform(),
	}
	if inputs.Getenv == nil {
		inputs.Getenv = os.Getenv
	}
	if r.Platform != nil {
		inputs.Platform = *r.Platform
	}

	config := &Config{Platform: inputs.Platform, Sources: make(map[string]string)}

	languageName, source := First(LanguageLookups, inputs)
	language, err := ParseLanguage(languageName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if transformed {
		language = LanguageCPP
		source = "transform output"
	}
	config.Language = language
	config.Sources["language"] = source
	inputs.Language = language

	config.Compiler, config.Sources["compiler"] = First(CompilerLookups, inputs)

	if vendorName := properties.String(kernelprops.CompilerVendor); vendorName != "" {
		config.Vendor, err = ParseVendor(vendorName)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", kernelprops.CompilerVendor, err)
		}
		config.Sources["vendor"] = "property " + kernelprops.CompilerVendor
	} else {
		config.Vendor = DetectVendor(config.Compiler)
		config.Sources["vendor"] = "detected from " + config.Compiler
	}
	inputs.Vendor = config.Vendor

	axes := []struct {
		name    string
		lookups []Lookup
		target  *[]string
	}{
		{"flags", FlagsLookups, &config.Flags},
		{"shared_flags", SharedFlagsLookups, &config.SharedFlags},
		{"linker_flags", LinkerFlagsLookups, &config.LinkerFlags},
	}
	for _, axis := range axes {
		value, source := First(axis.lookups, inputs)
		words, err := shellquote.Split(value)
		if err != nil {
			return nil, fmt.Errorf("%s %s: splitting %q: %w", axis.name, source, value, err)
		}
		*axis.target = words
		config.Sources[axis.name] = source
	}

	config.EnvScript, config.Sources["env_script"] = First(EnvScriptLookups, inputs)

	standard, err := shellquote.Split(config.Vendor.StandardFlags(language))
	if err != nil {
		return nil, err
	}
	config.Flags = AddFlags(config.Flags, standard...)

	config.IncludeDirs = slices.Clone(r.IncludeDirs)
	config.LibraryDirs = slices.Clone(r.LibraryDirs)
	if !transformed {
		config.IncludeDirs = append(config.IncludeDirs, splitPathList(inputs.Getenv("KILN_INCLUDE_PATH"))...)
		config.LibraryDirs = append(config.LibraryDirs, splitPathList(inputs.Getenv("KILN_LIBRARY_PATH"))...)
	}

	return config, nil
}

// AddFlags appends each flag not already present.
func AddFlags(flags []string, additions ...string) []string {
	for _, flag := range additions {
		if !slices.Contains(flags, flag) {
			flags = append(flags, flag)
		}
	}
	return flags
}

func splitPathList(list string) []string {
	var directories []string
	for _, directory := range filepath.SplitList(list) {
		if directory != "" {
			directories = append(directories, directory)
		}
	}
	return directories
}
