// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the kiln configuration.
type Config struct {
	// Cache configures the kernel cache.
	Cache CacheConfig `yaml:"cache"`

	// Libraries maps library aliases to root directories. Kernels
	// named lib://<alias>/<path>, or living under a root, are cached
	// under libraries/<alias> instead of cache/.
	Libraries map[string]string `yaml:"libraries"`

	// Kernel holds default properties for every kernel build. Build
	// properties override them key by key.
	Kernel map[string]any `yaml:"kernel"`

	// Launcher holds default properties for launcher builds, applied
	// over Kernel.
	Launcher map[string]any `yaml:"launcher"`

	// IncludeDirs and LibraryDirs are passed to every compile as -I
	// and -L directories.
	IncludeDirs []string `yaml:"include_dirs"`
	LibraryDirs []string `yaml:"library_dirs"`

	// Transform configures the source-to-source transform tool.
	Transform TransformConfig `yaml:"transform"`
}

// CacheConfig configures the kernel cache.
type CacheConfig struct {
	// Root is the cache root directory.
	// Default: $KILN_CACHE_DIR, or ~/.cache/kiln
	Root string `yaml:"root"`
}

// TransformConfig configures the transform tool.
type TransformConfig struct {
	// Command is the tool and its leading arguments. The input,
	// output and launcher output paths are appended. Empty disables
	// the transform: kernels must then set transform: false.
	Command []string `yaml:"command"`
}

// Default returns the configuration used when no file is given, and
// the base every file is loaded over.
func Default() *Config {
	root := os.Getenv("KILN_CACHE_DIR")
	if root == "" {
		homeDir, _ := os.UserHomeDir()
		root = filepath.Join(homeDir, ".cache", "kiln")
	}
	return &Config{
		Cache:     CacheConfig{Root: root},
		Libraries: map[string]string{},
		Kernel:    map[string]any{},
		Launcher:  map[string]any{},
	}
}

// Load loads configuration from the file named by KILN_CONFIG. When
// KILN_CONFIG is unset the Default configuration is returned.
func Load() (*Config, error) {
	configPath := os.Getenv("KILN_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file does not set keep their Default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"KILN_ROOT": c.Cache.Root,
		"HOME":      os.Getenv("HOME"),
	}

	c.Cache.Root = expandVars(c.Cache.Root, vars)
	vars["KILN_ROOT"] = c.Cache.Root // Update for dependent paths.

	for alias, root := range c.Libraries {
		c.Libraries[alias] = expandVars(root, vars)
	}
	for i, directory := range c.IncludeDirs {
		c.IncludeDirs[i] = expandVars(directory, vars)
	}
	for i, directory := range c.LibraryDirs {
		c.LibraryDirs[i] = expandVars(directory, vars)
	}
	for i, argument := range c.Transform.Command {
		c.Transform.Command[i] = expandVars(argument, vars)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// languages are the accepted compiler_language values.
var languages = []string{"cpp", "c++", "cxx", "c"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Root == "" {
		errs = append(errs, fmt.Errorf("cache.root is required"))
	} else if !filepath.IsAbs(c.Cache.Root) {
		errs = append(errs, fmt.Errorf("cache.root must be absolute, got %q", c.Cache.Root))
	}

	for _, alias := range sortedKeys(c.Libraries) {
		if alias == "" || strings.ContainsAny(alias, `/\`) {
			errs = append(errs, fmt.Errorf("libraries: invalid alias %q", alias))
		}
		if c.Libraries[alias] == "" {
			errs = append(errs, fmt.Errorf("libraries.%s: root is required", alias))
		}
	}

	for _, section := range []struct {
		name       string
		properties map[string]any
	}{{"kernel", c.Kernel}, {"launcher", c.Launcher}} {
		if language, ok := section.properties["compiler_language"]; ok {
			name, isString := language.(string)
			if !isString || !slices.Contains(languages, strings.ToLower(name)) {
				errs = append(errs, fmt.Errorf("%s.compiler_language must be one of: %v", section.name, languages))
			}
		}
	}

	if len(c.Transform.Command) > 0 && c.Transform.Command[0] == "" {
		errs = append(errs, fmt.Errorf("transform.command: program is empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the cache root if it doesn't exist.
func (c *Config) EnsurePaths() error {
	if err := os.MkdirAll(c.Cache.Root, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Cache.Root, err)
	}
	return nil
}

// LauncherProperties returns the launcher defaults layered over the
// kernel defaults.
func (c *Config) LauncherProperties() map[string]any {
	merged := make(map[string]any, len(c.Kernel)+len(c.Launcher))
	for name, value := range c.Kernel {
		merged[name] = value
	}
	for name, value := range c.Launcher {
		merged[name] = value
	}
	return merged
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
