// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result is the outcome of a finished process.
type Result struct {
	// Output is standard output and standard error interleaved in the
	// order the process wrote them.
	Output []byte

	// ExitCode is the process exit status.
	ExitCode int
}

// Runner runs external processes. The build layer depends on this
// interface so tests can count and script compiler invocations.
type Runner interface {
	// Run blocks until the process exits. A non-nil error means the
	// process could not be started or waited on; a process that ran and
	// failed returns a nil error and a non-zero ExitCode.
	Run(ctx context.Context, invocation Invocation) (Result, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string

	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, invocation Invocation) (Result, error) {
	if len(invocation.Argv) == 0 {
		return Result{}, fmt.Errorf("empty command")
	}

	var output bytes.Buffer
	command := exec.CommandContext(ctx, invocation.Argv[0], invocation.Argv[1:]...)
	command.Dir = r.Dir
	command.Env = r.Env
	command.Stdout = &output
	command.Stderr = &output

	err := command.Run()
	if err == nil {
		return Result{Output: output.Bytes()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return Result{Output: output.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}
	return Result{Output: output.Bytes(), ExitCode: -1}, fmt.Errorf("running %s: %w", invocation.Display, err)
}
