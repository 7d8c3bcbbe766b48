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

// Package dictionary annotates ranked words with translations from a
// dictionary store.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ianlewis/go-bookwords/dictionary/ecdict"
	"github.com/ianlewis/go-bookwords/dictionary/stardict"
	"github.com/ianlewis/go-bookwords/wordfreq"
)

// ErrUnsupportedStore indicates that a dictionary file has an unknown type.
var ErrUnsupportedStore = errors.New("unsupported dictionary")

// Translator looks up translations of words.
type Translator interface {
	// Lookup returns the raw translation of word. It returns false if the
	// word has no translation. Absence is not an error.
	Lookup(ctx context.Context, word string) (string, bool, error)
}

// Store is a Translator backed by open files.
type Store interface {
	Translator
	io.Closer
}

// Open opens the dictionary store at path. SQLite databases in the ECDICT
// layout (.db, .sqlite, .sqlite3) and StarDict dictionaries (.ifo) are
// supported.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		d, err := ecdict.Open(path)
		if err != nil {
			return nil, err //nolint:wrapcheck // already wrapped.
		}
		return d, nil
	case ".ifo":
		d, err := stardict.Open(path)
		if err != nil {
			return nil, err //nolint:wrapcheck // already wrapped.
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, path)
	}
}

// Map is an in-memory Translator.
type Map map[string]string

// Lookup implements [Translator.Lookup].
func (m Map) Lookup(_ context.Context, word string) (string, bool, error) {
	s, ok := m[word]
	return s, ok, nil
}

// FormatTranslation prepares a raw translation for a single CSV field.
// Leading whitespace is removed, ASCII commas become full-width commas and
// newlines become "; ".
func FormatTranslation(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.ReplaceAll(s, ",", "，")
	return strings.ReplaceAll(s, "\n", "; ")
}

// Annotate sets the Translation of every entry. Words without a
// translation are annotated with the word itself. Lookup failures abort
// annotation.
func Annotate(ctx context.Context, t Translator, entries []wordfreq.Entry) error {
	for i := range entries {
		raw, ok, err := t.Lookup(ctx, entries[i].Word)
		if err != nil {
			return fmt.Errorf("annotating %q: %w", entries[i].Word, err)
		}
		if !ok {
			entries[i].Translation = entries[i].Word
			continue
		}
		entries[i].Translation = FormatTranslation(raw)
	}
	return nil
}
