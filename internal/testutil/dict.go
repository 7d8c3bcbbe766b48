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

package testutil

import (
	"compress/gzip"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ianlewis/go-dictzip"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// ECDICTEntry is a row in a test ECDICT database.
type ECDICTEntry struct {
	Word        string
	Translation string

	// NullTranslation stores NULL instead of Translation.
	NullTranslation bool
}

const ecdictSchema = `CREATE TABLE "stardict" (
	"id" INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL UNIQUE,
	"word" VARCHAR(64) COLLATE NOCASE NOT NULL UNIQUE,
	"sw" VARCHAR(64) COLLATE NOCASE NOT NULL,
	"phonetic" VARCHAR(64),
	"definition" TEXT,
	"translation" TEXT,
	"pos" VARCHAR(16),
	"collins" INTEGER DEFAULT(0),
	"oxford" INTEGER DEFAULT(0),
	"tag" VARCHAR(64),
	"bnc" INTEGER DEFAULT(NULL),
	"frq" INTEGER DEFAULT(NULL),
	"exchange" TEXT,
	"detail" TEXT,
	"audio" TEXT
)`

// MakeECDICT creates an ECDICT SQLite database named name in dir and
// returns its path.
func MakeECDICT(t *testing.T, dir, name string, entries []ECDICTEntry) string {
	t.Helper()

	p := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(ecdictSchema); err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		translation := sql.NullString{
			String: e.Translation,
			Valid:  !e.NullTranslation,
		}
		if _, err := db.Exec(
			`INSERT INTO stardict (word, sw, translation) VALUES (?, ?, ?)`,
			e.Word, strings.ToLower(e.Word), translation,
		); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	return p
}

// StarDictData is a single typed data item of a StarDict word.
type StarDictData struct {
	Type byte
	Data []byte
}

// StarDictWord is a word and its data in a test StarDict dictionary.
type StarDictWord struct {
	Word string
	Data []StarDictData
}

// StarDictOptions controls the layout of a test StarDict dictionary.
type StarDictOptions struct {
	// OffsetBits is 32 or 64. Defaults to 32. A 64 bit index is written as a
	// version 3.0.0 dictionary.
	OffsetBits int

	// GzipIndex writes the index as .idx.gz.
	GzipIndex bool

	// DictZip writes the dictionary data as .dict.dz.
	DictZip bool

	// SameTypeSequence is written to the .ifo file and omits type bytes from
	// the dictionary data.
	SameTypeSequence string

	// Ifo overrides the .ifo file contents.
	Ifo string
}

// MakeStarDict writes a StarDict dictionary with the base name name into
// dir and returns the path of its .ifo file.
func MakeStarDict(t *testing.T, dir, name string, words []StarDictWord, opts *StarDictOptions) string {
	t.Helper()

	if opts == nil {
		opts = &StarDictOptions{}
	}
	offsetBits := opts.OffsetBits
	if offsetBits == 0 {
		offsetBits = 32
	}

	var dictData, idxData []byte
	for _, w := range words {
		b := makeWordData(t, w, opts.SameTypeSequence)
		idxData = appendIndexEntry(t, idxData, w.Word, uint64(len(dictData)), len(b), offsetBits)
		dictData = append(dictData, b...)
	}

	base := filepath.Join(dir, name)

	idxPath := base + ".idx"
	if opts.GzipIndex {
		idxPath += ".gz"
	}
	writeFile(t, idxPath, idxData, opts.GzipIndex)

	dictPath := base + ".dict"
	if opts.DictZip {
		dictPath += ".dz"
		f, err := os.Create(dictPath)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		z, err := dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := z.Write(dictData); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
	} else {
		writeFile(t, dictPath, dictData, false)
	}

	ifo := opts.Ifo
	if ifo == "" {
		version := "2.4.2"
		if offsetBits == 64 {
			version = "3.0.0"
		}
		var b strings.Builder
		b.WriteString("StarDict's dict ifo file\n")
		fmt.Fprintf(&b, "version=%s\n", version)
		fmt.Fprintf(&b, "bookname=%s\n", name)
		fmt.Fprintf(&b, "wordcount=%d\n", len(words))
		fmt.Fprintf(&b, "idxfilesize=%d\n", len(idxData))
		if offsetBits == 64 {
			b.WriteString("idxoffsetbits=64\n")
		}
		if opts.SameTypeSequence != "" {
			fmt.Fprintf(&b, "sametypesequence=%s\n", opts.SameTypeSequence)
		}
		b.WriteString("description=Test dictionary.\n")
		ifo = b.String()
	}
	ifoPath := base + ".ifo"
	writeFile(t, ifoPath, []byte(ifo), false)

	return ifoPath
}

func writeFile(t *testing.T, path string, data []byte, gz bool) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if gz {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
	} else if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// makeWordData encodes the data of a word. Without a sametypesequence every
// item carries its type byte. With one, type bytes are omitted and the last
// item has neither a terminator nor a size.
func makeWordData(t *testing.T, w StarDictWord, sameTypeSequence string) []byte {
	t.Helper()

	var b []byte
	for i, d := range w.Data {
		last := sameTypeSequence != "" && i == len(w.Data)-1
		if sameTypeSequence == "" {
			b = append(b, d.Type)
		}
		if 'a' <= d.Type && d.Type <= 'z' {
			// Data is a string like sequence.
			b = append(b, d.Data...)
			if !last {
				b = append(b, 0)
			}
			continue
		}
		// Data is a file like sequence.
		if !last {
			if len(d.Data) > math.MaxUint32 {
				t.Fatalf("word data too long: %d", len(d.Data))
			}
			//nolint:gosec // bounds checked above.
			b = binary.BigEndian.AppendUint32(b, uint32(len(d.Data)))
		}
		b = append(b, d.Data...)
	}
	return b
}

func appendIndexEntry(t *testing.T, b []byte, word string, offset uint64, size, offsetBits int) []byte {
	t.Helper()

	b = append(b, word...)
	b = append(b, 0)
	switch offsetBits {
	case 32:
		if offset > math.MaxUint32 {
			t.Fatalf("word offset too large %d > %d", offset, offsetBits)
		}
		//nolint:gosec // test code, offset size determined by idxoffsetbits
		b = binary.BigEndian.AppendUint32(b, uint32(offset))
	case 64:
		b = binary.BigEndian.AppendUint64(b, offset)
	default:
		t.Fatalf("unsupported offset bits: %d", offsetBits)
	}
	//nolint:gosec // test data is small.
	return binary.BigEndian.AppendUint32(b, uint32(size))
}
