// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package dynload

import "golang.org/x/sys/windows"

type libraryHandle = *windows.DLL

func openLibrary(path string) (libraryHandle, error) {
	return windows.LoadDLL(path)
}

func lookupSymbol(handle libraryHandle, symbol string) (uintptr, error) {
	procedure, err := handle.FindProc(symbol)
	if err != nil {
		return 0, err
	}
	return procedure.Addr(), nil
}

func closeLibrary(handle libraryHandle) error {
	return handle.Release()
}
