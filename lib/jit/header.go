// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

// KernelHeader renders the "defines" and "includes" properties as
// preprocessor lines. Include names already in <> or "" are kept as
// written; bare paths are quoted. Defines are emitted in name order so the staged
// raw source is the same for equal properties.
func KernelHeader(properties kernelprops.Properties) []byte {
	var header bytes.Buffer
	defines := properties.StringMap(kernelprops.Defines)
	for _, name := range slices.Sorted(maps.Keys(defines)) {
		fmt.Fprintf(&header, "#define %s %s\n", name, defines[name])
	}
	for _, include := range properties.Strings(kernelprops.Includes) {
		if !strings.HasPrefix(include, "<") && !strings.HasPrefix(include, `"`) {
			include = `"` + include + `"`
		}
		fmt.Fprintf(&header, "#include %s\n", include)
	}
	if header.Len() > 0 {
		header.WriteByte('\n')
	}
	return header.Bytes()
}

// RawSource returns the bytes staged as the raw source artifact: the
// kernel header followed by the caller's source.
func RawSource(source []byte, properties kernelprops.Properties) []byte {
	header := KernelHeader(properties)
	if len(header) == 0 {
		return source
	}
	return append(header, source...)
}
