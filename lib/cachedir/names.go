// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cachedir

import "runtime"

// Fixed artifact names within an entry directory.
const (
	CppRawSourceFile   = "raw_source.cpp"
	CRawSourceFile     = "raw_source.c"
	SourceFile         = "source.cpp"
	LauncherSourceFile = "launcher_source.cpp"
	BuildFile          = "build.json"
	LauncherBuildFile  = "launcher_build.json"
)

// BinaryFile and LauncherBinaryFile carry the platform's shared-library
// naming.
var (
	BinaryFile         = binaryName("binary")
	LauncherBinaryFile = binaryName("launcher_binary")
)

// Variant selects between the kernel artifact set and the launcher
// artifact set of a cache entry.
type Variant int

const (
	// Kernel is the device kernel itself.
	Kernel Variant = iota
	// Launcher is the host-side dispatch glue built alongside a kernel.
	Launcher
)

// String returns "kernel" or "launcher".
func (v Variant) String() string {
	if v == Launcher {
		return "launcher"
	}
	return "kernel"
}

// BinaryFile returns the binary artifact name for the variant.
func (v Variant) BinaryFile() string {
	if v == Launcher {
		return LauncherBinaryFile
	}
	return BinaryFile
}

// BuildFile returns the metadata document name for the variant.
func (v Variant) BuildFile() string {
	if v == Launcher {
		return LauncherBuildFile
	}
	return BuildFile
}

// RawSourceFile returns the raw source name for the source language:
// raw_source.cpp unless cpp is false.
func RawSourceFile(cpp bool) string {
	if cpp {
		return CppRawSourceFile
	}
	return CRawSourceFile
}

func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".dll"
	}
	return name
}
