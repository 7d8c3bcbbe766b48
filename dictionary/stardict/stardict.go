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

// Package stardict reads dictionaries in the StarDict format.
//
// A StarDict dictionary consists of three files sharing a base name:
//
//   - The .ifo file holds metadata about the dictionary.
//   - The .idx file is an index of words and the location of their data. The
//     index may be compressed with gzip (.idx.gz).
//   - The .dict file holds the word data. The dict file can be compressed
//     using the dictzip format (.dict.dz).
//
// Synonym (.syn) files are not read.
package stardict

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-bookwords/internal/folding"
	"github.com/ianlewis/go-bookwords/internal/index"
)

// ErrFormat indicates that a dictionary file is malformed.
var ErrFormat = errors.New("stardict: invalid format")

var (
	idxExts  = []string{".idx.gz", ".idx", ".IDX", ".IDX.gz", ".IDX.GZ"}
	dictExts = []string{".dict.dz", ".dict", ".DICT", ".DICT.dz", ".DICT.DZ"}
)

// Dictionary is an open StarDict dictionary.
type Dictionary struct {
	info  *Info
	index *index.Index[idxWord]
	dict  io.ReaderAt
	f     *os.File

	// dictSize is the size of the uncompressed dictionary data or -1 if it
	// is not known up front.
	dictSize int64
}

// Open opens the StarDict dictionary described by the .ifo file at path.
// The index is read into memory. The dictionary data is read on demand.
func Open(path string) (*Dictionary, error) {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".ifo") {
		return nil, fmt.Errorf("%w: bad extension %q", ErrFormat, ext)
	}

	info, err := openInfo(path)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	words, err := openIdx(base, info.IdxOffsetBits)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		info: info,
		index: index.New(words, func(w idxWord) string {
			return foldKey(w.Word)
		}),
	}
	if err := d.openDict(base); err != nil {
		return nil, err
	}

	return d, nil
}

func openInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	info, err := ReadInfo(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return info, nil
}

// findFile returns the first existing file named base plus one of exts.
func findFile(base string, exts []string) (string, error) {
	for _, ext := range exts {
		p := base + ext
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s%s", os.ErrNotExist, base, exts[0])
}

func openIdx(base string, offsetBits int) ([]idxWord, error) {
	idxPath, err := findFile(base, idxExts)
	if err != nil {
		return nil, fmt.Errorf("no index found: %w", err)
	}

	f, err := os.Open(idxPath)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", idxPath, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(idxPath), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", idxPath, err)
		}
		defer zr.Close()
		r = zr
	}

	words, err := readIdx(r, offsetBits)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", idxPath, err)
	}
	return words, nil
}

func (d *Dictionary) openDict(base string) error {
	dictPath, err := findFile(base, dictExts)
	if err != nil {
		return fmt.Errorf("no dict found: %w", err)
	}

	f, err := os.Open(dictPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", dictPath, err)
	}

	d.f = f
	d.dict = f
	d.dictSize = -1
	if strings.EqualFold(filepath.Ext(dictPath), ".dz") {
		z, err := dictzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("opening %q: %w", dictPath, err)
		}
		d.dict = z
		return nil
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("reading %q: %w", dictPath, err)
	}
	d.dictSize = fi.Size()
	return nil
}

// foldKey normalizes a word for lookup. Case is folded and whitespace runs
// are collapsed.
func foldKey(word string) string {
	key, _, err := transform.String(transform.Chain(cases.Fold(), folding.Whitespace()), word)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(word))
	}
	return key
}

// Info returns the dictionary metadata.
func (d *Dictionary) Info() Info {
	return *d.info
}

// Len returns the number of words in the index.
func (d *Dictionary) Len() int {
	return d.index.Len()
}

// Entry returns the data of every index entry matching word.
func (d *Dictionary) Entry(word string) ([][]Data, error) {
	var entries [][]Data
	for _, w := range d.index.Search(foldKey(word)) {
		if w.Offset > math.MaxInt64 {
			return nil, fmt.Errorf("%w: word offset too large: %d", ErrFormat, w.Offset)
		}
		//nolint:gosec // dictSize is never negative here.
		if d.dictSize >= 0 && (w.Offset > uint64(d.dictSize) || uint64(w.Size) > uint64(d.dictSize)-w.Offset) {
			return nil, fmt.Errorf("%w: %q at offset %d size %d is past the end of the dictionary",
				ErrFormat, w.Word, w.Offset, w.Size)
		}

		// Read through a section so that the buffer only grows as far as
		// the data actually present.
		//nolint:gosec // offset size is bounds checked above.
		b, err := io.ReadAll(io.NewSectionReader(d.dict, int64(w.Offset), int64(w.Size)))
		if err != nil {
			return nil, fmt.Errorf("reading dictionary: %w", err)
		}
		if len(b) < int(w.Size) {
			return nil, fmt.Errorf("%w: %q is truncated: want %d bytes, got %d",
				ErrFormat, w.Word, w.Size, len(b))
		}
		data, err := parseWord(b, d.info.SameTypeSequence)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", w.Word, err)
		}
		entries = append(entries, data)
	}
	return entries, nil
}

// Lookup returns the textual definitions of word. Words match regardless of
// case and whitespace. Definitions of several matching entries are joined by
// newlines.
func (d *Dictionary) Lookup(ctx context.Context, word string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("looking up %q: %w", word, err)
	}

	entries, err := d.Entry(word)
	if err != nil {
		return "", false, err
	}

	var defs []string
	for _, data := range entries {
		if def := definition(data); def != "" {
			defs = append(defs, def)
		}
	}
	if len(defs) == 0 {
		return "", false, nil
	}
	return strings.Join(defs, "\n"), true, nil
}

// Close closes the dictionary's data file.
func (d *Dictionary) Close() error {
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("closing dictionary: %w", err)
	}
	return nil
}
