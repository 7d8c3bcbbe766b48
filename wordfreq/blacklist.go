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

package wordfreq

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Blacklist is a set of words excluded from ranked output. A nil Blacklist
// is empty.
type Blacklist map[string]struct{}

// NewBlacklist returns a blacklist holding words.
func NewBlacklist(words ...string) Blacklist {
	bl := make(Blacklist, len(words))
	for _, w := range words {
		bl.add(w)
	}
	return bl
}

func (bl Blacklist) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	bl[word] = struct{}{}
}

// Contains reports whether word is blacklisted.
func (bl Blacklist) Contains(word string) bool {
	_, ok := bl[word]
	return ok
}

// ReadBlacklist reads a blacklist in CSV format from r. The first row is a
// header and is skipped. The first column of every other row is a word.
func ReadBlacklist(r io.Reader) (Blacklist, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	bl := Blacklist{}
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading blacklist: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) > 0 {
			bl.add(rec[0])
		}
	}
	return bl, nil
}

// LoadBlacklist reads the blacklist CSV file at path. An empty path returns
// an empty blacklist.
func LoadBlacklist(path string) (Blacklist, error) {
	if path == "" {
		return Blacklist{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening blacklist: %w", err)
	}
	defer f.Close()

	bl, err := ReadBlacklist(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bl, nil
}
