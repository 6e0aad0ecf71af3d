// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kernelprops

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Property names understood by the build layer.
const (
	Compiler            = "compiler"
	CompilerFlags       = "compiler_flags"
	CompilerEnvScript   = "compiler_env_script"
	CompilerVendor      = "compiler_vendor"
	CompilerLanguage    = "compiler_language"
	CompilerLinkerFlags = "compiler_linker_flags"
	CompilerSharedFlags = "compiler_shared_flags"

	// Transform enables the source-to-source transform. Defaults to
	// true: kernels are written in the kernel language unless a caller
	// says otherwise.
	Transform = "transform"

	// Defines is a map of macro name to value rendered as #define lines
	// ahead of the raw source.
	Defines = "defines"

	// Includes is a list of headers rendered as #include lines ahead of
	// the raw source.
	Includes = "includes"

	// Silent turns transform failures into a "no kernel" result.
	Silent = "silent"

	// Verbose raises cache and compile messages to Info level.
	Verbose = "verbose"
)

// Untracked lists properties that never reach the content digest.
var Untracked = map[string]struct{}{
	Silent:  {},
	Verbose: {},
}

// Properties is a set of named build properties. Values are whatever a
// JSON or YAML decoder produces: string, bool, float64/int, []any,
// map[string]any.
type Properties map[string]any

// Parse decodes a JSON object into Properties. Comments and trailing
// commas are accepted so properties can be kept in hand-edited files.
func Parse(data []byte) (Properties, error) {
	stripped := jsonc.ToJSON(data)
	if len(strings.TrimSpace(string(stripped))) == 0 {
		return Properties{}, nil
	}
	var properties Properties
	if err := json.Unmarshal(stripped, &properties); err != nil {
		return nil, fmt.Errorf("parsing kernel properties: %w", err)
	}
	if properties == nil {
		properties = Properties{}
	}
	return properties, nil
}

// Merge returns a new Properties containing base overlaid by each
// override in order. Nil inputs are ignored. The inputs are not
// modified.
func Merge(base Properties, overrides ...Properties) Properties {
	merged := make(Properties, len(base))
	maps.Copy(merged, base)
	for _, override := range overrides {
		maps.Copy(merged, override)
	}
	return merged
}

// String returns the named property as a string. Numbers and booleans
// are formatted; missing or nil values and composite values yield "".
func (p Properties) String(name string) string {
	switch value := p[name].(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	default:
		return ""
	}
}

// Bool returns the named property as a boolean, or fallback when it is
// absent or not interpretable as one. The strings "true"/"false" (any
// case) and "1"/"0" are accepted for values that came through the
// environment or a string-typed config field.
func (p Properties) Bool(name string, fallback bool) bool {
	switch value := p[name].(type) {
	case bool:
		return value
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// Strings returns the named property as a list of strings. A single
// string value is treated as a one-element list.
func (p Properties) Strings(name string) []string {
	switch value := p[name].(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []string:
		return slices.Clone(value)
	case []any:
		result := make([]string, 0, len(value))
		for _, element := range value {
			result = append(result, fmt.Sprint(element))
		}
		return result
	default:
		return nil
	}
}

// StringMap returns the named property as a map of string to string.
// Values are formatted with fmt.Sprint.
func (p Properties) StringMap(name string) map[string]string {
	switch value := p[name].(type) {
	case map[string]string:
		return maps.Clone(value)
	case map[string]any:
		result := make(map[string]string, len(value))
		for key, element := range value {
			result[key] = fmt.Sprint(element)
		}
		return result
	default:
		return nil
	}
}

// Tracked returns a copy holding only the properties that affect the
// produced binary, that is, everything except [Untracked] names.
func (p Properties) Tracked() Properties {
	tracked := make(Properties, len(p))
	for name, value := range p {
		if _, skip := Untracked[name]; skip {
			continue
		}
		tracked[name] = value
	}
	return tracked
}

// Names returns the property names in sorted order.
func (p Properties) Names() []string {
	return slices.Sorted(maps.Keys(p))
}
