// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Producer writes the staged content to the given temporary paths, one
// per target and in the same order. Returning false (with a nil error)
// abandons the stage without renaming anything.
type Producer func(tempPaths []string) (bool, error)

// Files stages targets. Parent directories are created as needed. If
// skipExisting is set and every target already exists, Files returns
// without calling produce. Otherwise produce runs once with the
// temporary paths and, if it reports success, each temporary file is
// renamed onto its target in order.
//
// Targets are committed one rename at a time. Callers that need one
// target to be visible only after another should list the prerequisite
// first.
func Files(targets []string, skipExisting bool, produce Producer) error {
	tempPaths := make([]string, len(targets))
	allExist := skipExisting
	for i, target := range targets {
		directory := filepath.Dir(target)
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", directory, err)
		}

		tempPath, err := TempPath(target)
		if err != nil {
			return err
		}
		tempPaths[i] = tempPath

		if allExist && !isFile(target) {
			allExist = false
		}
	}

	if skipExisting && allExist {
		return nil
	}

	ok, err := produce(tempPaths)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for i, target := range targets {
		if err := commit(tempPaths[i], target); err != nil {
			return err
		}
	}
	return nil
}

// File is Files for a single target.
func File(target string, skipExisting bool, produce func(tempPath string) (bool, error)) error {
	return Files([]string{target}, skipExisting, func(tempPaths []string) (bool, error) {
		return produce(tempPaths[0])
	})
}

// WriteFile stages data into target. The temporary file and its
// directory are synced before the rename so a committed file survives a
// crash.
func WriteFile(target string, data []byte, skipExisting bool) error {
	return File(target, skipExisting, func(tempPath string) (bool, error) {
		if err := writeSynced(tempPath, data); err != nil {
			return false, err
		}
		return true, nil
	})
}

// TempPath returns a fresh temporary path beside target.
func TempPath(target string) (string, error) {
	var prefix [8]byte
	if _, err := rand.Read(prefix[:]); err != nil {
		return "", fmt.Errorf("generating temporary name for %s: %w", target, err)
	}
	return filepath.Join(filepath.Dir(target), hex.EncodeToString(prefix[:])+"."+filepath.Base(target)), nil
}

// Sync flushes path and its parent directory to stable storage.
// Directory sync is best-effort: some platforms and filesystems reject
// it.
func Sync(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for sync: %w", path, err)
	}
	syncErr := file.Sync()
	file.Close()
	if syncErr != nil {
		return fmt.Errorf("syncing %s: %w", path, syncErr)
	}

	if directory, err := os.Open(filepath.Dir(path)); err == nil {
		_ = directory.Sync()
		directory.Close()
	}
	return nil
}

// commit renames tempPath onto target. A producer that chose not to
// create one of its temporary files leaves nothing to commit. A failed
// rename is success when the target exists, which is the case when a
// concurrent stager committed first.
func commit(tempPath, target string) error {
	if !isFile(tempPath) {
		return nil
	}
	if err := os.Rename(tempPath, target); err != nil {
		if isFile(target) {
			return nil
		}
		return fmt.Errorf("renaming %s to %s: %w", tempPath, target, err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
