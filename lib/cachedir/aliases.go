// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cachedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LibraryScheme prefixes filenames that are resolved through a library
// alias: lib://<alias>/<relative path>.
const LibraryScheme = "lib://"

// Aliases maps library alias names to filesystem roots. The zero value
// has no aliases. An Aliases value is never modified after
// construction; build it once during setup and share it.
type Aliases struct {
	roots map[string]string
}

// NewAliases validates and copies the alias table. Roots are expanded
// (~, environment variables) and made absolute. Alias names must be
// non-empty and contain no path separator.
func NewAliases(roots map[string]string) (Aliases, error) {
	table := make(map[string]string, len(roots))
	for name, root := range roots {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return Aliases{}, fmt.Errorf("invalid library alias %q", name)
		}
		if root == "" {
			return Aliases{}, fmt.Errorf("library alias %q has an empty root", name)
		}
		expanded, err := filepath.Abs(ExpandEnvironment(root))
		if err != nil {
			return Aliases{}, fmt.Errorf("resolving root of library alias %q: %w", name, err)
		}
		table[name] = expanded
	}
	return Aliases{roots: table}, nil
}

// Root returns the root directory registered for alias.
func (a Aliases) Root(alias string) (string, bool) {
	root, ok := a.roots[alias]
	return root, ok
}

// Owner returns the alias whose root contains the absolute path. When
// roots nest, the longest (most specific) root wins.
func (a Aliases) Owner(path string) (string, bool) {
	best, bestLength := "", -1
	for name, root := range a.roots {
		relative, err := filepath.Rel(root, path)
		if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > bestLength {
			best, bestLength = name, len(root)
		}
	}
	return best, bestLength >= 0
}

// SplitLibraryPath splits lib://<alias>/<path> into its alias and
// relative path. ok is false when filename does not use the scheme or
// names no alias or no path.
func SplitLibraryPath(filename string) (alias, relative string, ok bool) {
	rest, found := strings.CutPrefix(filepath.ToSlash(filename), LibraryScheme)
	if !found {
		return "", "", false
	}
	alias, relative, found = strings.Cut(rest, "/")
	if !found || alias == "" || relative == "" {
		return "", "", false
	}
	return alias, relative, true
}

// Expand turns a logical filename into an absolute filesystem path:
// ~ and environment variables are expanded, lib:// filenames are
// resolved through the alias table, and relative paths are anchored at
// the working directory.
func (a Aliases) Expand(filename string) (string, error) {
	expanded := ExpandEnvironment(filename)

	if strings.HasPrefix(filepath.ToSlash(expanded), LibraryScheme) {
		alias, relative, ok := SplitLibraryPath(expanded)
		if !ok {
			return "", fmt.Errorf("malformed library path %q: want %s<alias>/<path>", filename, LibraryScheme)
		}
		root, ok := a.Root(alias)
		if !ok {
			return "", fmt.Errorf("library path %q: unknown alias %q", filename, alias)
		}
		return filepath.Join(root, filepath.FromSlash(relative)), nil
	}

	absolute, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", filename, err)
	}
	return absolute, nil
}

// ExpandEnvironment expands a leading ~ to the home directory and
// $VAR / ${VAR} references from the process environment. Unset
// variables expand to the empty string.
func ExpandEnvironment(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
