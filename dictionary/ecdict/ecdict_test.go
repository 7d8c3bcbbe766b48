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

package ecdict_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-bookwords/dictionary/ecdict"
	"github.com/ianlewis/go-bookwords/internal/testutil"
)

func TestDictionary_Lookup(t *testing.T) {
	t.Parallel()

	p := testutil.MakeECDICT(t, t.TempDir(), "ecdict.db", []testutil.ECDICTEntry{
		{Word: "cat", Translation: "n. 猫"},
		{Word: "Apple", Translation: "n. 苹果\nn. 苹果树"},
		{Word: "blank", Translation: "  \n"},
		{Word: "null", NullTranslation: true},
	})

	d, err := ecdict.Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	tests := []struct {
		word     string
		expected string
		found    bool
	}{
		{word: "cat", expected: "n. 猫", found: true},
		{word: "CAT", expected: "n. 猫", found: true},
		{word: "apple", expected: "n. 苹果\nn. 苹果树", found: true},
		{word: "blank"},
		{word: "null"},
		{word: "dog"},
	}

	for _, test := range tests {
		t.Run(test.word, func(t *testing.T) {
			t.Parallel()

			got, found, err := d.Lookup(context.Background(), test.word)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if found != test.found {
				t.Errorf("Lookup: want found %v, got %v", test.found, found)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Lookup (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_missing(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "missing.db")
	_, err := ecdict.Open(p)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open: want %v, got %v", os.ErrNotExist, err)
	}
	if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open created %q", p)
	}
}

func TestOpen_schema(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE words (word TEXT)"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = ecdict.Open(p)
	if !errors.Is(err, ecdict.ErrSchema) {
		t.Fatalf("Open: want %v, got %v", ecdict.ErrSchema, err)
	}
}

func TestDictionary_readOnly(t *testing.T) {
	t.Parallel()

	p := testutil.MakeECDICT(t, t.TempDir(), "ecdict.db", []testutil.ECDICTEntry{
		{Word: "cat", Translation: "n. 猫"},
	})
	before, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}

	d, err := ecdict.Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := d.Lookup(context.Background(), "cat"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	after, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(before, after) {
		t.Errorf("database modified by lookups")
	}
}
