// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

func TestFilesCommitsAllTargets(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "nested", "entry")
	targets := []string{
		filepath.Join(directory, "build.json"),
		filepath.Join(directory, "binary"),
	}

	err := Files(targets, true, func(tempPaths []string) (bool, error) {
		for i, tempPath := range tempPaths {
			if filepath.Dir(tempPath) != directory {
				t.Errorf("temp path %s not beside its target", tempPath)
			}
			if !strings.HasSuffix(tempPath, "."+filepath.Base(targets[i])) {
				t.Errorf("temp path %s does not end with the target base name", tempPath)
			}
			if err := os.WriteFile(tempPath, []byte(filepath.Base(targets[i])), 0o644); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	for _, target := range targets {
		if got := readFile(t, target); got != filepath.Base(target) {
			t.Errorf("%s = %q", target, got)
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("directory has %d entries after commit, want 2 (temps must be renamed away)", len(entries))
	}
}

func TestFilesSkipsWhenAllExist(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "binary")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	called := false
	err := File(target, true, func(string) (bool, error) {
		called = true
		return true, nil
	})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if called {
		t.Error("producer ran although every target exists")
	}
}

func TestFilesRunsWhenOneTargetMissing(t *testing.T) {
	directory := t.TempDir()
	present := filepath.Join(directory, "build.json")
	missing := filepath.Join(directory, "binary")
	if err := os.WriteFile(present, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	called := false
	err := Files([]string{present, missing}, true, func(tempPaths []string) (bool, error) {
		called = true
		for _, tempPath := range tempPaths {
			if err := os.WriteFile(tempPath, []byte("new"), 0o644); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if !called {
		t.Fatal("producer did not run although a target was missing")
	}
	if got := readFile(t, present); got != "new" {
		t.Errorf("present target = %q, want new", got)
	}
}

func TestFilesOverwritesWithoutSkip(t *testing.T) {
	target := filepath.Join(t.TempDir(), "source.cpp")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(target, []byte("new"), false); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := readFile(t, target); got != "new" {
		t.Errorf("target = %q, want new", got)
	}
}

func TestFilesProducerFalseLeavesTargetAbsent(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "binary")

	var staged string
	err := File(target, true, func(tempPath string) (bool, error) {
		staged = tempPath
		if err := os.WriteFile(tempPath, []byte("partial"), 0o644); err != nil {
			return false, err
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("target exists after abandoned stage (stat err = %v)", err)
	}
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("abandoned temp file should be left in place: %v", err)
	}
}

func TestFilesProducerErrorLeavesTargetAbsent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "binary")
	compileFailure := errors.New("compiler exited with status 1")

	err := File(target, true, func(tempPath string) (bool, error) {
		_ = os.WriteFile(tempPath, []byte("half a binary"), 0o644)
		return false, compileFailure
	})
	if !errors.Is(err, compileFailure) {
		t.Fatalf("File error = %v, want %v", err, compileFailure)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("target exists after failed producer (stat err = %v)", err)
	}
}

func TestFilesUncreatedTempIsSkipped(t *testing.T) {
	directory := t.TempDir()
	first := filepath.Join(directory, "build.json")
	second := filepath.Join(directory, "binary")

	err := Files([]string{first, second}, false, func(tempPaths []string) (bool, error) {
		return true, os.WriteFile(tempPaths[1], []byte("binary"), 0o644)
	})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Errorf("uncreated temp produced a target (stat err = %v)", err)
	}
	if got := readFile(t, second); got != "binary" {
		t.Errorf("second target = %q", got)
	}
}

func TestFilesInterleavedStagersConverge(t *testing.T) {
	// Stager A produces, then stager B runs to completion while A is
	// still inside its producer, then A commits. Both must succeed and
	// the target must hold one complete artifact.
	target := filepath.Join(t.TempDir(), "entry", "binary")
	const content = "complete binary"

	err := File(target, true, func(tempA string) (bool, error) {
		if err := os.WriteFile(tempA, []byte(content), 0o644); err != nil {
			return false, err
		}
		innerErr := File(target, true, func(tempB string) (bool, error) {
			if tempB == tempA {
				t.Error("concurrent stagers received the same temp path")
			}
			return true, os.WriteFile(tempB, []byte(content), 0o644)
		})
		if innerErr != nil {
			t.Errorf("inner stager: %v", innerErr)
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("outer stager: %v", err)
	}
	if got := readFile(t, target); got != content {
		t.Errorf("target = %q, want %q", got, content)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the committed binary", len(entries))
	}
}

func TestFilesRenameFailureIsReported(t *testing.T) {
	// A non-empty directory at the target path makes the rename fail
	// without a regular file appearing there.
	target := filepath.Join(t.TempDir(), "binary")
	if err := os.MkdirAll(filepath.Join(target, "occupied"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	err := File(target, false, func(tempPath string) (bool, error) {
		return true, os.WriteFile(tempPath, []byte("x"), 0o644)
	})
	if err == nil {
		t.Fatal("File should fail when the rename fails and no file is at the target")
	}
	if !strings.Contains(err.Error(), target) {
		t.Errorf("error %q does not name the target", err)
	}
}

func TestTempPathUnique(t *testing.T) {
	target := filepath.Join(t.TempDir(), "binary")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tempPath, err := TempPath(target)
		if err != nil {
			t.Fatalf("TempPath: %v", err)
		}
		if seen[tempPath] {
			t.Fatalf("TempPath repeated %s", tempPath)
		}
		seen[tempPath] = true
	}
}

func TestSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := Sync(path); err != nil {
		t.Errorf("Sync: %v", err)
	}
	if err := Sync(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Sync should fail for a missing file")
	}
}
