// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kernelmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/kiln/lib/kernelprops"
	"github.com/bureau-foundation/kiln/lib/stage"
)

// Argument describes one kernel parameter.
type Argument struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Pointer bool   `json:"pointer,omitempty"`
	Const   bool   `json:"const,omitempty"`
}

// Kernel is the metadata of one entry point.
type Kernel struct {
	// Name is the kernel name as written in the source.
	Name string `json:"name"`

	// Symbol is the exported symbol of the entry point in the compiled
	// binary. Empty means the symbol equals Name.
	Symbol string `json:"symbol,omitempty"`

	Arguments []Argument `json:"arguments"`
}

// EntryPoint returns the symbol to resolve for this kernel.
func (k Kernel) EntryPoint() string {
	if k.Symbol != "" {
		return k.Symbol
	}
	return k.Name
}

// Source maps kernel name to its metadata for every kernel a source
// file defines.
type Source map[string]Kernel

// Document is the persisted form.
type Document struct {
	Digest     string                 `json:"digest,omitempty"`
	Properties kernelprops.Properties `json:"properties,omitempty"`
	Kernels    Source                 `json:"kernels"`
}

// Kernel returns the metadata for name. A kernel absent from the
// document yields metadata carrying only the name.
func (d Document) Kernel(name string) Kernel {
	if kernel, ok := d.Kernels[name]; ok {
		if kernel.Name == "" {
			kernel.Name = name
		}
		return kernel
	}
	return Kernel{Name: name}
}

// Marshal encodes the document in its on-disk form.
func Marshal(document Document) ([]byte, error) {
	if document.Kernels == nil {
		document.Kernels = Source{}
	}
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding kernel metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes an on-disk document.
func Unmarshal(data []byte) (Document, error) {
	var document Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &document); err != nil {
		return Document{}, fmt.Errorf("decoding kernel metadata: %w", err)
	}
	if document.Kernels == nil {
		document.Kernels = Source{}
	}
	return document, nil
}

// Write stages the document at path.
func Write(path string, document Document) error {
	return stage.File(path, false, func(tempPath string) (bool, error) {
		if err := WriteTemp(tempPath, document); err != nil {
			return false, err
		}
		return true, nil
	})
}

// WriteTemp writes the document to the temporary path of a stager that
// commits it, and syncs it. Use it when the document is committed
// together with other artifacts.
func WriteTemp(tempPath string, document Document) error {
	data, err := Marshal(document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing kernel metadata: %w", err)
	}
	return stage.Sync(tempPath)
}

// Read loads the document at path. A missing file yields an empty
// document and a nil error.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{Kernels: Source{}}, nil
		}
		return Document{}, fmt.Errorf("reading kernel metadata %s: %w", path, err)
	}
	document, err := Unmarshal(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return document, nil
}
