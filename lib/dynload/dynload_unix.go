// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || freebsd || linux

package dynload

import "github.com/ebitengine/purego"

type libraryHandle = uintptr

func openLibrary(path string) (libraryHandle, error) {
	// RTLD_LOCAL keeps kernel symbols out of the global namespace so two
	// cache entries exporting the same kernel name never interpose.
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func lookupSymbol(handle libraryHandle, symbol string) (uintptr, error) {
	return purego.Dlsym(handle, symbol)
}

func closeLibrary(handle libraryHandle) error {
	return purego.Dlclose(handle)
}
