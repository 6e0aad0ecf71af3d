// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/kiln/lib/kernelmeta"
	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

// TransformRequest is one invocation of the source-to-source
// transform.
type TransformRequest struct {
	// Input is the staged raw source.
	Input string

	// Output is where the transformed C++ source must be written.
	Output string

	// LauncherOutput is where a host launcher source may be written.
	// Transforms that produce no launcher leave it uncreated.
	LauncherOutput string

	Properties kernelprops.Properties
}

// Transformer translates kernel-language source into C++. A non-nil
// error means the source was rejected (or the transform could not
// run); its text is the diagnostic shown to the user.
type Transformer interface {
	Transform(ctx context.Context, request TransformRequest) (kernelmeta.Source, error)
}

// CommandTransformer runs an external transform tool as
//
//	<Command...> <input> <output> <launcher-output>
//
// with the request properties as JSON on stdin. On success the tool
// prints the kernel metadata, a JSON object of kernel name to
// kernelmeta.Kernel, on stdout and exits zero. On failure it exits
// non-zero and whatever it wrote to stderr becomes the diagnostic.
type CommandTransformer struct {
	Command []string
}

// Transform implements Transformer.
func (t CommandTransformer) Transform(ctx context.Context, request TransformRequest) (kernelmeta.Source, error) {
	if len(t.Command) == 0 {
		return nil, fmt.Errorf("no transform command configured")
	}

	properties, err := json.Marshal(request.Properties)
	if err != nil {
		return nil, fmt.Errorf("encoding transform properties: %w", err)
	}

	arguments := append(t.Command[1:len(t.Command):len(t.Command)], request.Input, request.Output, request.LauncherOutput)
	command := exec.CommandContext(ctx, t.Command[0], arguments...)
	command.Stdin = bytes.NewReader(properties)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diagnostic := strings.TrimSpace(stderr.String())
			if diagnostic == "" {
				diagnostic = fmt.Sprintf("%s exited with status %d", t.Command[0], exitErr.ExitCode())
			}
			return nil, errors.New(diagnostic)
		}
		return nil, fmt.Errorf("running transform %s: %w", t.Command[0], err)
	}

	kernels, err := parseKernels(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("transform %s printed invalid metadata: %w", t.Command[0], err)
	}
	return kernels, nil
}

func parseKernels(output []byte) (kernelmeta.Source, error) {
	kernels := kernelmeta.Source{}
	if len(bytes.TrimSpace(output)) == 0 {
		return kernels, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(output), &kernels); err != nil {
		return nil, err
	}
	for name, kernel := range kernels {
		if kernel.Name == "" {
			kernel.Name = name
			kernels[name] = kernel
		}
	}
	return kernels, nil
}
