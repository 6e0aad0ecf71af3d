// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !darwin && !freebsd && !linux && !windows

package dynload

import (
	"fmt"
	"runtime"
)

type libraryHandle = uintptr

func openLibrary(string) (libraryHandle, error) {
	return 0, fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)
}

func lookupSymbol(libraryHandle, string) (uintptr, error) {
	return 0, fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)
}

func closeLibrary(libraryHandle) error {
	return nil
}
