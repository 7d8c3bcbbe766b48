// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// maxDecompressSize is the maximum decompressed size of a single archive
// entry. Larger entries are treated as a malformed archive.
const maxDecompressSize int64 = 256 * 1024 * 1024

// WorkDir is a temporary directory holding the extracted contents of an
// archive. It must be closed to remove the directory.
type WorkDir struct {
	path string

	once sync.Once
	err  error
}

// Path returns the path of the directory.
func (w *WorkDir) Path() string {
	return w.path
}

// Close removes the directory and everything in it. It is safe to call Close
// more than once.
func (w *WorkDir) Close() error {
	w.once.Do(func() {
		if err := os.RemoveAll(w.path); err != nil {
			w.err = fmt.Errorf("removing work directory: %w", err)
		}
	})
	return w.err
}

// Extract unpacks the archive at archivePath into a new directory created
// under parentDir. The directory name includes the process id and a random
// suffix so that concurrent runs never collide. parentDir must exist. If
// parentDir is empty the system temporary directory is used.
//
// The returned WorkDir is owned by the caller. On error no directory is left
// behind.
func Extract(archivePath, parentDir string) (*WorkDir, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, archivePath, err)
		}
		return nil, fmt.Errorf("reading %q: %w", archivePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, archivePath)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", ErrMalformedArchive, archivePath, err)
	}
	defer zr.Close()

	if parentDir == "" {
		parentDir = os.TempDir()
	}
	dir, err := os.MkdirTemp(parentDir, fmt.Sprintf("temp_epub_%d_*", os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}

	w := &WorkDir{path: dir}
	for _, f := range zr.File {
		if err := extractFile(dir, f, maxDecompressSize); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	return w, nil
}

// extractFile writes a single archive entry below dir. Entries whose path
// escapes dir, or whose decompressed size exceeds limit, are rejected.
func extractFile(dir string, f *zip.File, limit int64) error {
	if !isSafePath(f.Name) {
		return fmt.Errorf("%w: unsafe entry path %q", ErrMalformedArchive, f.Name)
	}

	target := filepath.Join(dir, filepath.FromSlash(f.Name))
	if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("creating %q: %w", target, err)
		}
		return nil
	}

	if f.UncompressedSize64 > uint64(limit) {
		return fmt.Errorf("%w: entry %q too large: %d bytes (max %d)",
			ErrMalformedArchive, f.Name, f.UncompressedSize64, limit)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening entry %q: %w", ErrMalformedArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}

	// NOTE: the declared size may be forged so the copy is limited as well.
	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: reading entry %q: %w", ErrMalformedArchive, f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %q: %w", target, err)
	}
	if n > limit {
		return fmt.Errorf("%w: entry %q exceeds %d bytes", ErrMalformedArchive, f.Name, limit)
	}

	return nil
}

// isSafePath reports whether p is a slash separated path that stays inside
// its root (e.g. not "../../etc/passwd" or "/etc/passwd").
func isSafePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") {
		return false
	}
	return filepath.IsLocal(filepath.FromSlash(p))
}
