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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yaml     string
		expected *Config
		err      error
	}{
		{
			name: "all keys",
			yaml: `dictionary: /usr/share/bookwords/ecdict.db
blacklist: blacklist.csv
workers: 4
strict: true
chinese: true
`,
			expected: &Config{
				Dictionary: "/usr/share/bookwords/ecdict.db",
				Blacklist:  "blacklist.csv",
				Workers:    4,
				Strict:     true,
				Chinese:    true,
			},
		},
		{
			name:     "empty",
			yaml:     "",
			expected: &Config{},
		},
		{
			name:     "comments only",
			yaml:     "# nothing here\n",
			expected: &Config{},
		},
		{
			name: "unknown key",
			yaml: "dictionary: a.db\ncolour: blue\n",
			err:  ErrConfig,
		},
		{
			name: "wrong type",
			yaml: "workers: many\n",
			err:  ErrConfig,
		},
		{
			name: "negative workers",
			yaml: "workers: -1\n",
			err:  ErrConfig,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := Read(strings.NewReader(test.yaml))
			if !errors.Is(err, test.err) {
				t.Fatalf("Read: want error %v, got %v", test.err, err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Read (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	data := "dictionary: dict/ecdict.db\nblacklist: /etc/bookwords/blacklist.csv\n"
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	expected := &Config{
		Dictionary: filepath.Join(dir, "dict", "ecdict.db"),
		Blacklist:  "/etc/bookwords/blacklist.csv",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Load (-want, +got):\n%s", diff)
	}
}

func TestLoad_missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load: want %v, got %v", os.ErrNotExist, err)
	}
}
