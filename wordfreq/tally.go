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

// Package wordfreq counts and ranks words in plain text.
package wordfreq

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Status is the outcome of reading a text file.
type Status int

const (
	// StatusOK means the file was read completely.
	StatusOK Status = iota

	// StatusNotFound means the file does not exist.
	StatusNotFound

	// StatusUnreadable means the file exists but could not be read or is
	// not valid UTF-8.
	StatusUnreadable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusUnreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is a single row of ranked output.
type Entry struct {
	// Word is the lower-case word.
	Word string

	// Count is the number of occurrences of the word.
	Count int

	// Translation is the dictionary annotation. It is empty when the
	// entries were not annotated.
	Translation string
}

// Tally holds word counts. Words are kept in the order they were first
// seen so that ranking is deterministic.
type Tally struct {
	// Status is the outcome of reading the source of the tally.
	Status Status

	// Err is the error that caused a Status other than StatusOK.
	Err error

	counts map[string]int
	order  []string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		counts: map[string]int{},
	}
}

// Add adds n occurrences of word. The word is lower-cased.
func (t *Tally) Add(word string, n int) {
	t.add(strings.ToLower(word), n)
}

func (t *Tally) add(word string, n int) {
	if t.counts == nil {
		t.counts = map[string]int{}
	}
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word] += n
}

// Get returns the number of occurrences of word.
func (t *Tally) Get(word string) int {
	return t.counts[strings.ToLower(word)]
}

// Len returns the number of distinct words.
func (t *Tally) Len() int {
	return len(t.order)
}

// Total returns the total number of words counted.
func (t *Tally) Total() int {
	var total int
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Words returns the distinct words in first occurrence order.
func (t *Tally) Words() []string {
	return slices.Clone(t.order)
}

// Merge adds the counts in other to t. Words not yet in t are appended in
// the order they appear in other.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	for _, word := range other.order {
		t.add(word, other.counts[word])
	}
}

// Rank returns the words of the tally ordered by count, most frequent
// first. Words with equal counts keep their first occurrence order. Single
// letter words and words in bl are omitted.
func (t *Tally) Rank(bl Blacklist) []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, word := range t.order {
		if len([]rune(word)) == 1 || bl.Contains(word) {
			continue
		}
		entries = append(entries, Entry{
			Word:  word,
			Count: t.counts[word],
		})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return entries
}

// Count counts the words read from r. The text must be UTF-8. A leading
// byte order mark is ignored.
func Count(r io.Reader) (*Tally, error) {
	t := NewTally()

	br := bufio.NewReader(transform.NewReader(r, transform.Chain(
		encoding.UTF8Validator,
		unicode.BOMOverride(transform.Nop),
	)))
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			for _, word := range words(strings.ToLower(line)) {
				t.add(word, 1)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading text: %w", err)
		}
	}

	return t, nil
}

// CountFile counts the words in the text file at path. It never fails;
// when the file cannot be read the returned tally is empty and its Status
// and Err report why.
func CountFile(path string) *Tally {
	f, err := os.Open(path)
	if err != nil {
		t := NewTally()
		t.Status = StatusUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			t.Status = StatusNotFound
		}
		t.Err = err
		return t
	}
	defer f.Close()

	t, err := Count(f)
	if err != nil {
		t = NewTally()
		t.Status = StatusUnreadable
		t.Err = fmt.Errorf("%s: %w", path, err)
	}
	return t
}
