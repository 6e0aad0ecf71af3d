// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cachedir

import (
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/kiln/lib/kernelhash"
)

const (
	cacheSubdirectory = "cache"
	libraryDirectory  = "libraries"
)

// Locator resolves cache entry directories under a root.
type Locator struct {
	// Root is the cache root directory. It should be absolute.
	Root string

	// Aliases are consulted to place library kernels under
	// libraries/<alias>.
	Aliases Aliases
}

// CachePath is the directory holding plain kernel entries.
func (l Locator) CachePath() string {
	return filepath.Join(l.Root, cacheSubdirectory)
}

// LibraryPath is the directory holding per-library entry trees.
func (l Locator) LibraryPath() string {
	return filepath.Join(l.Root, libraryDirectory)
}

// Directory returns the entry directory for a kernel. It is a pure
// function of its inputs and the alias table: nothing is created or
// checked on disk. No collision detection is performed; the digest is
// trusted.
func (l Locator) Directory(filename string, digest kernelhash.Digest) string {
	if alias, ok := l.library(filename); ok {
		return filepath.Join(l.LibraryPath(), alias, kernelhash.Format(digest))
	}
	return filepath.Join(l.CachePath(), kernelhash.Format(digest))
}

// Artifact returns the path of a named artifact inside the entry
// directory.
func (l Locator) Artifact(filename string, digest kernelhash.Digest, name string) string {
	return filepath.Join(l.Directory(filename, digest), name)
}

// Binary returns the binary path for the variant.
func (l Locator) Binary(filename string, digest kernelhash.Digest, variant Variant) string {
	return l.Artifact(filename, digest, variant.BinaryFile())
}

// Shortname returns path relative to the root for log output, or path
// unchanged when it lies outside the root.
func (l Locator) Shortname(path string) string {
	relative, err := filepath.Rel(l.Root, path)
	if err != nil || strings.HasPrefix(relative, "..") {
		return path
	}
	return relative
}

func (l Locator) library(filename string) (string, bool) {
	if alias, _, ok := SplitLibraryPath(filename); ok {
		return alias, true
	}
	if !filepath.IsAbs(filename) {
		return "", false
	}
	return l.Aliases.Owner(filepath.Clean(filename))
}
