// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type codedError int

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return int(e) }

func TestReport(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("no compiler"), 1, "error: no compiler\n"},
		{"coded", codedError(2), 2, ""},
		{"wrapped coded", fmt.Errorf("build: %w", codedError(3)), 3, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			if code := Report(&output, test.err); code != test.code {
				t.Errorf("code = %d, want %d", code, test.code)
			}
			if output.String() != test.output {
				t.Errorf("output = %q, want %q", output.String(), test.output)
			}
		})
	}
}
