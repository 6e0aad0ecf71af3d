// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cachepack

import (
	"archive/tar"
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bureau-foundation/kiln/lib/cachedir"
	"github.com/bureau-foundation/kiln/lib/stage"
)

// magic starts every archive. The byte after it is the Codec.
var magic = [4]byte{'K', 'L', 'N', 'P'}

// stagedTemporary matches the names stage.TempPath generates.
var stagedTemporary = regexp.MustCompile(`^[0-9a-f]{16}\.`)

// Stats summarizes a Pack or Unpack.
type Stats struct {
	Files int
	Bytes int64

	// Skipped counts files Unpack left alone because they already
	// existed.
	Skipped int
}

// Pack writes every committed file under root to w as an archive
// compressed with codec.
func Pack(root string, w io.Writer, codec Codec) (Stats, error) {
	files, err := collect(root)
	if err != nil {
		return Stats{}, err
	}

	if _, err := w.Write(append(magic[:], byte(codec))); err != nil {
		return Stats{}, fmt.Errorf("writing archive header: %w", err)
	}
	compressed, err := codec.compressor(w)
	if err != nil {
		return Stats{}, err
	}
	archive := tar.NewWriter(compressed)

	var stats Stats
	for _, name := range files {
		written, err := addFile(archive, root, name)
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Bytes += written
	}

	if err := archive.Close(); err != nil {
		return stats, fmt.Errorf("finishing archive: %w", err)
	}
	if err := compressed.Close(); err != nil {
		return stats, fmt.Errorf("finishing %s stream: %w", codec, err)
	}
	return stats, nil
}

// collect returns the slash-separated names of the regular files under
// root, staged temporaries excluded, ordered so that within each
// directory the binaries come last.
func collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() || stagedTemporary.MatchString(entry.Name()) {
			return nil
		}
		relative, err := filepath.Rel(root, current)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	slices.SortFunc(files, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(path.Dir(a), path.Dir(b)),
			cmp.Compare(binaryRank(a), binaryRank(b)),
			cmp.Compare(a, b),
		)
	})
	return files, nil
}

func binaryRank(name string) int {
	switch path.Base(name) {
	case cachedir.BinaryFile, cachedir.LauncherBinaryFile:
		return 1
	default:
		return 0
	}
}

func addFile(archive *tar.Writer, root, name string) (int64, error) {
	source := filepath.Join(root, filepath.FromSlash(name))
	file, err := os.Open(source)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", source, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", source, err)
	}
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Format:   tar.FormatPAX,
	}
	if err := archive.WriteHeader(header); err != nil {
		return 0, fmt.Errorf("archiving %s: %w", name, err)
	}
	written, err := io.Copy(archive, file)
	if err != nil {
		return written, fmt.Errorf("archiving %s: %w", name, err)
	}
	return written, nil
}

// Unpack extracts an archive written by Pack into root. Existing files
// are kept: cache entries are content-addressed, so an existing file
// already holds the same bytes.
func Unpack(r io.Reader, root string) (Stats, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Stats{}, fmt.Errorf("reading archive header: %w", err)
	}
	if [4]byte(header[:4]) != magic {
		return Stats{}, errors.New("not a kiln cache archive")
	}
	codec := Codec(header[4])
	decompressed, release, err := codec.decompressor(r)
	if err != nil {
		return Stats{}, err
	}
	defer release()

	archive := tar.NewReader(decompressed)
	var stats Stats
	for {
		entry, err := archive.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("reading archive: %w", err)
		}
		if entry.Typeflag != tar.TypeReg {
			continue
		}

		target, err := targetPath(root, entry.Name)
		if err != nil {
			return stats, err
		}
		if _, err := os.Stat(target); err == nil {
			stats.Skipped++
			continue
		}

		mode := fs.FileMode(entry.Mode).Perm()
		if mode == 0 {
			mode = 0o644
		}
		var written int64
		err = stage.File(target, true, func(tempPath string) (bool, error) {
			var extractErr error
			written, extractErr = extract(tempPath, archive, mode)
			return extractErr == nil, extractErr
		})
		if err != nil {
			return stats, fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
		stats.Files++
		stats.Bytes += written
	}
}

// targetPath resolves an archive member name under root, rejecting
// names that would escape it.
func targetPath(root, name string) (string, error) {
	cleaned := path.Clean(name)
	if path.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("archive member %q escapes the cache root", name)
	}
	return filepath.Join(root, filepath.FromSlash(cleaned)), nil
}

func extract(destination string, r io.Reader, mode fs.FileMode) (int64, error) {
	file, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, err
	}
	return written, stage.Sync(destination)
}
