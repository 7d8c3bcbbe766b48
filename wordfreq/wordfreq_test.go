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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding"
)

const catText = "The cat sat on the mat. The Cat ran."

func TestCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected map[string]int
		order    []string
	}{
		{
			name: "cat",
			text: catText,
			expected: map[string]int{
				"the": 3,
				"cat": 2,
				"sat": 1,
				"on":  1,
				"mat": 1,
				"ran": 1,
			},
			order: []string{"the", "cat", "sat", "on", "mat", "ran"},
		},
		{
			name: "contractions",
			text: "Don't stop. 'Quoted' words, it's fine.",
			expected: map[string]int{
				"don't":  1,
				"stop":   1,
				"quoted": 1,
				"words":  1,
				"it's":   1,
				"fine":   1,
			},
			order: []string{"don't", "stop", "quoted", "words", "it's", "fine"},
		},
		{
			name: "digits and underscores",
			text: "_Chapter_ **12** a1b\n\nend",
			expected: map[string]int{
				"end": 1,
			},
			order: []string{"end"},
		},
		{
			name: "accented words",
			text: "Café au lait, naïve idea, résumé\n",
			expected: map[string]int{
				"au":   1,
				"lait": 1,
				"idea": 1,
			},
			order: []string{"au", "lait", "idea"},
		},
		{
			name: "mixed scripts",
			text: "猫cat dog² 'wow'",
			expected: map[string]int{
				"wow": 1,
			},
			order: []string{"wow"},
		},
		{
			name: "lines",
			text: "one\r\ntwo\n\n\none",
			expected: map[string]int{
				"one": 2,
				"two": 1,
			},
			order: []string{"one", "two"},
		},
		{
			name: "byte order mark",
			text: "\ufeffHello hello",
			expected: map[string]int{
				"hello": 2,
			},
			order: []string{"hello"},
		},
		{
			name:     "empty",
			text:     "",
			expected: map[string]int{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			tally, err := Count(strings.NewReader(test.text))
			if err != nil {
				t.Fatalf("Count: %v", err)
			}

			got := map[string]int{}
			for _, w := range tally.Words() {
				got[w] = tally.Get(w)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("counts (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.order, tally.Words()); diff != "" {
				t.Errorf("order (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestCount_invalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Count(bytes.NewReader([]byte("hello \xff\xfe world")))
	if !errors.Is(err, encoding.ErrInvalidUTF8) {
		t.Fatalf("Count: want %v, got %v", encoding.ErrInvalidUTF8, err)
	}
}

func TestTally_Rank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		blacklist Blacklist
		expected  []Entry
	}{
		{
			name: "cat",
			text: catText,
			expected: []Entry{
				{Word: "the", Count: 3},
				{Word: "cat", Count: 2},
				{Word: "sat", Count: 1},
				{Word: "on", Count: 1},
				{Word: "mat", Count: 1},
				{Word: "ran", Count: 1},
			},
		},
		{
			name:      "cat with blacklist",
			text:      catText,
			blacklist: NewBlacklist("the", "ON"),
			expected: []Entry{
				{Word: "cat", Count: 2},
				{Word: "sat", Count: 1},
				{Word: "mat", Count: 1},
				{Word: "ran", Count: 1},
			},
		},
		{
			name: "single letters",
			text: "I saw a b c cat. I did.",
			expected: []Entry{
				{Word: "saw", Count: 1},
				{Word: "cat", Count: 1},
				{Word: "did", Count: 1},
			},
		},
		{
			name: "stable ties",
			text: "zebra apple zebra mango apple kiwi",
			expected: []Entry{
				{Word: "zebra", Count: 2},
				{Word: "apple", Count: 2},
				{Word: "mango", Count: 1},
				{Word: "kiwi", Count: 1},
			},
		},
		{
			name:     "empty",
			text:     "",
			expected: []Entry{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			tally, err := Count(strings.NewReader(test.text))
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if diff := cmp.Diff(test.expected, tally.Rank(test.blacklist)); diff != "" {
				t.Errorf("Rank (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestTally_caseInsensitive(t *testing.T) {
	t.Parallel()

	tally, err := Count(strings.NewReader("WORD Word word wOrD"))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if got, want := tally.Len(), 1; got != want {
		t.Errorf("Len: want %d, got %d", want, got)
	}
	if got, want := tally.Get("Word"), 4; got != want {
		t.Errorf("Get: want %d, got %d", want, got)
	}
	if got, want := tally.Total(), 4; got != want {
		t.Errorf("Total: want %d, got %d", want, got)
	}
}

func TestTally_Merge(t *testing.T) {
	t.Parallel()

	a, err := Count(strings.NewReader("alpha beta alpha"))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	b, err := Count(strings.NewReader("gamma beta delta gamma gamma"))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	a.Merge(b)
	a.Merge(nil)

	if diff := cmp.Diff([]string{"alpha", "beta", "gamma", "delta"}, a.Words()); diff != "" {
		t.Errorf("Words (-want, +got):\n%s", diff)
	}

	expected := []Entry{
		{Word: "gamma", Count: 3},
		{Word: "alpha", Count: 2},
		{Word: "beta", Count: 2},
		{Word: "delta", Count: 1},
	}
	if diff := cmp.Diff(expected, a.Rank(nil)); diff != "" {
		t.Errorf("Rank (-want, +got):\n%s", diff)
	}
}

func TestCountFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	okPath := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(okPath, []byte(catText), 0o600); err != nil {
		t.Fatal(err)
	}
	emptyPath := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(emptyPath, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	badPath := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(badPath, []byte("caf\xe9"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		status Status
		words  int
	}{
		{
			name:   "ok",
			path:   okPath,
			status: StatusOK,
			words:  6,
		},
		{
			name:   "empty",
			path:   emptyPath,
			status: StatusOK,
		},
		{
			name:   "not found",
			path:   filepath.Join(dir, "missing.txt"),
			status: StatusNotFound,
		},
		{
			name:   "invalid utf-8",
			path:   badPath,
			status: StatusUnreadable,
		},
		{
			name:   "directory",
			path:   dir,
			status: StatusUnreadable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			tally := CountFile(test.path)
			if got, want := tally.Status, test.status; got != want {
				t.Fatalf("Status: want %v, got %v (err: %v)", want, got, tally.Err)
			}
			if (tally.Err != nil) != (test.status != StatusOK) {
				t.Errorf("Err: unexpected %v for status %v", tally.Err, tally.Status)
			}
			if got, want := tally.Len(), test.words; got != want {
				t.Errorf("Len: want %d, got %d", want, got)
			}
		})
	}
}

func TestReadBlacklist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		csv      string
		expected Blacklist
	}{
		{
			name:     "words",
			csv:      "word,note\nThe,article\n  and ,\nof\n",
			expected: NewBlacklist("the", "and", "of"),
		},
		{
			name:     "header only",
			csv:      "word\n",
			expected: Blacklist{},
		},
		{
			name:     "empty",
			csv:      "",
			expected: Blacklist{},
		},
		{
			name:     "blank entries",
			csv:      "word\n\"\"\n,x\nok\n",
			expected: NewBlacklist("ok"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReadBlacklist(strings.NewReader(test.csv))
			if err != nil {
				t.Fatalf("ReadBlacklist: %v", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("ReadBlacklist (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestLoadBlacklist(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		bl, err := LoadBlacklist("")
		if err != nil {
			t.Fatalf("LoadBlacklist: %v", err)
		}
		if len(bl) != 0 {
			t.Errorf("LoadBlacklist: want empty, got %v", bl)
		}
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join(t.TempDir(), "blacklist.csv")
		if err := os.WriteFile(p, []byte("word\nthe\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		bl, err := LoadBlacklist(p)
		if err != nil {
			t.Fatalf("LoadBlacklist: %v", err)
		}
		if !bl.Contains("the") {
			t.Errorf("Contains(%q): want true", "the")
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := LoadBlacklist(filepath.Join(t.TempDir(), "missing.csv"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("LoadBlacklist: want %v, got %v", os.ErrNotExist, err)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entries  []Entry
		expected string
	}{
		{
			name: "cat",
			entries: []Entry{
				{Word: "the", Count: 3},
				{Word: "cat", Count: 2, Translation: "n. 猫"},
			},
			expected: "word,count,chinese\nthe,3,\ncat,2,n. 猫\n",
		},
		{
			name:     "header only",
			expected: "word,count,chinese\n",
		},
		{
			name: "quoting",
			entries: []Entry{
				{Word: "say", Count: 1, Translation: `v. "say", tell`},
			},
			expected: "word,count,chinese\nsay,1,\"v. \"\"say\"\", tell\"\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := WriteCSV(&buf, test.entries); err != nil {
				t.Fatalf("WriteCSV: %v", err)
			}
			if diff := cmp.Diff(test.expected, buf.String()); diff != "" {
				t.Errorf("WriteCSV (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestWriteCSVFile_deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var outputs []string
	for i := range 3 {
		tally, err := Count(strings.NewReader(catText + " zebra apple zebra apple"))
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		p := filepath.Join(dir, "out"+string(rune('a'+i))+".csv")
		if err := WriteCSVFile(p, tally.Rank(nil)); err != nil {
			t.Fatalf("WriteCSVFile: %v", err)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, string(b))
	}

	for _, out := range outputs[1:] {
		if diff := cmp.Diff(outputs[0], out); diff != "" {
			t.Errorf("output differs (-first, +got):\n%s", diff)
		}
	}
}
