// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which kiln binary is running. GitCommit,
// GitDirty and BuildTime are injected with -ldflags -X and stay
// "unknown" in development builds and tests; Version is set by hand.
// "kiln version" prints [Full].
package version
