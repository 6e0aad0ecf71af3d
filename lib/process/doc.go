// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers for kiln binaries: the
// last step of main(), after the structured logger is gone or before it
// exists.
//
// Errors that carry their own exit code (an ExitCode() int method) end
// the process with that code and print nothing, since the command has
// already reported its outcome. Any other error is printed to stderr as
// "error: ..." and ends the process with status 1.
package process
