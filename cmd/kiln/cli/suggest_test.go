// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"abc", "bac", 2}, // transposition (counted as 2 edits)
		{"kitten", "sitting", 3},
		{"build", "biuld", 2},
		{"unpack", "unpak", 1},
	}

	for _, test := range tests {
		got := levenshtein(test.a, test.b)
		if got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if reverse := levenshtein(test.b, test.a); reverse != got {
			t.Errorf("levenshtein is not symmetric for %q, %q: %d vs %d", test.a, test.b, got, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "build"}, {Name: "hash"}, {Name: "dir"}, {Name: "cache"}}

	tests := []struct {
		input string
		want  string
	}{
		{"buidl", "build"},
		{"has", "hash"},
		{"cahce", "cache"},
		{"xxxxxxxxxx", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
	flagSet.String("source", "", "")
	flagSet.String("properties", "", "")
	flagSet.Bool("launcher", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--propertys", "{}"}, "--properties"},
		{[]string{"--source", "a.okl", "--lancher"}, "--launcher"},
		{[]string{"--source=a.okl", "--nothing-like-it"}, ""},
		{[]string{"--", "--sorce"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", test.args, got, test.want)
		}
	}
}
