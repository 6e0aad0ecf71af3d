// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/kiln/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/kiln
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"

	// Version is bumped by hand for releases.
	Version = "0.1.0-dev"
)

// Info returns "kiln VERSION (COMMIT[-dirty], BUILDTIME)".
func Info() string {
	commit := GitCommit
	if GitDirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("kiln %s (%s, %s)", Version, commit, BuildTime)
}

// Full returns Info followed by the Go toolchain and target platform.
// The platform matters for a kernel cache: binaries under a cache root
// are only loadable on the platform that built them.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
