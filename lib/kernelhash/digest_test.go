// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kernelhash

import (
	"testing"

	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

func baseProperties() kernelprops.Properties {
	return kernelprops.Properties{
		kernelprops.Compiler:            "cc",
		kernelprops.CompilerFlags:       "-O3",
		kernelprops.CompilerEnvScript:   "",
		kernelprops.CompilerVendor:      "gnu",
		kernelprops.CompilerLanguage:    "cpp",
		kernelprops.CompilerLinkerFlags: "-lm",
		kernelprops.CompilerSharedFlags: "-fPIC -shared",
	}
}

func TestComputeDeterministic(t *testing.T) {
	source := []byte("<dummy source>")
	first := Compute(source, baseProperties())
	second := Compute(source, baseProperties())
	if first != second {
		t.Errorf("Compute not deterministic: %s != %s", first, second)
	}
}

func TestComputeInsertionOrderInvariant(t *testing.T) {
	source := []byte("kernel void add() {}")
	names := baseProperties().Names()
	want := Compute(source, baseProperties())

	// Build the same property set with every rotation of insertion
	// order. Map iteration is randomized as well, so repeated calls also
	// exercise ordering.
	for rotation := range names {
		properties := kernelprops.Properties{}
		for i := range names {
			name := names[(i+rotation)%len(names)]
			properties[name] = baseProperties()[name]
		}
		if got := Compute(source, properties); got != want {
			t.Errorf("rotation %d: digest %s, want %s", rotation, got, want)
		}
	}
}

func TestComputeSensitiveToEachProperty(t *testing.T) {
	source := []byte("kernel void add() {}")
	want := Compute(source, baseProperties())

	for _, name := range baseProperties().Names() {
		t.Run("change "+name, func(t *testing.T) {
			properties := baseProperties()
			properties[name] = properties.String(name) + "-changed"
			if Compute(source, properties) == want {
				t.Errorf("changing %s did not change the digest", name)
			}
		})
		t.Run("remove "+name, func(t *testing.T) {
			properties := baseProperties()
			delete(properties, name)
			if Compute(source, properties) == want {
				t.Errorf("removing %s did not change the digest", name)
			}
		})
	}

	t.Run("add property", func(t *testing.T) {
		properties := baseProperties()
		properties[kernelprops.Defines] = map[string]any{"TILE": 16}
		if Compute(source, properties) == want {
			t.Error("adding defines did not change the digest")
		}
	})
}

func TestComputeSensitiveToSource(t *testing.T) {
	if Compute([]byte("a"), baseProperties()) == Compute([]byte("b"), baseProperties()) {
		t.Error("different sources produced the same digest")
	}
}

func TestComputeIgnoresUntracked(t *testing.T) {
	source := []byte("kernel")
	want := Compute(source, baseProperties())

	properties := baseProperties()
	properties[kernelprops.Silent] = true
	properties[kernelprops.Verbose] = true
	if got := Compute(source, properties); got != want {
		t.Errorf("display properties changed the digest: %s != %s", got, want)
	}
}

func TestComputeNumericNormalization(t *testing.T) {
	source := []byte("kernel")
	fromYAML := kernelprops.Properties{kernelprops.Defines: map[string]any{"TILE": 16}}
	fromJSON := kernelprops.Properties{kernelprops.Defines: map[string]any{"TILE": 16.0}}
	if Compute(source, fromYAML) != Compute(source, fromJSON) {
		t.Error("int and integral float64 values hashed differently")
	}

	fractional := kernelprops.Properties{kernelprops.Defines: map[string]any{"TILE": 16.5}}
	if Compute(source, fractional) == Compute(source, fromJSON) {
		t.Error("16.5 and 16 hashed the same")
	}
}

func TestPropertiesNameValueBinding(t *testing.T) {
	// Swapping values between two properties must not collide.
	swapped := kernelprops.Properties{kernelprops.Compiler: "-O3", kernelprops.CompilerFlags: "cc"}
	original := kernelprops.Properties{kernelprops.Compiler: "cc", kernelprops.CompilerFlags: "-O3"}
	if Properties(swapped) == Properties(original) {
		t.Error("swapped property values produced the same combined hash")
	}
}

func TestPropertiesEmpty(t *testing.T) {
	if Properties(nil) != (Digest{}) {
		t.Error("empty property set should combine to the zero digest")
	}
}

func TestParseRoundTrip(t *testing.T) {
	digest := Compute([]byte("round-trip"), nil)
	formatted := Format(digest)
	if len(formatted) != 64 {
		t.Fatalf("Format length = %d, want 64", len(formatted))
	}
	parsed, err := Parse(formatted)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != digest {
		t.Errorf("Parse round-trip: %s != %s", parsed, digest)
	}
	if len(digest.Short()) != 12 {
		t.Errorf("Short length = %d, want 12", len(digest.Short()))
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", "zz"},
		{"too short", "abcd"},
		{"empty", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Parse(test.input); err == nil {
				t.Errorf("Parse(%q) should fail", test.input)
			}
		})
	}
}
