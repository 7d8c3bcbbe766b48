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

package langdetect

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetector_IsEnglish(t *testing.T) {
	t.Parallel()

	d := New()

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "english",
			text:     "It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness.",
			expected: true,
		},
		{
			name:     "german",
			text:     "Als Gregor Samsa eines Morgens aus unruhigen Träumen erwachte, fand er sich in seinem Bett zu einem ungeheueren Ungeziefer verwandelt.",
			expected: false,
		},
		{
			name:     "french",
			text:     "Longtemps, je me suis couché de bonne heure. Parfois, à peine ma bougie éteinte, mes yeux se fermaient si vite que je n'avais pas le temps de me dire.",
			expected: false,
		},
		{
			name:     "undetermined",
			text:     "12345 !!!",
			expected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := d.IsEnglish(test.text); got != test.expected {
				t.Errorf("IsEnglish: want %v, got %v", test.expected, got)
			}
		})
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		n        int
		expected string
	}{
		{
			name:     "short",
			text:     "hello",
			n:        10,
			expected: "hello",
		},
		{
			name:     "truncated",
			text:     "hello world",
			n:        5,
			expected: "hello",
		},
		{
			name:     "split rune",
			text:     "ab猫",
			n:        4,
			expected: "ab",
		},
		{
			name:     "invalid bytes",
			text:     "a\xffb",
			n:        10,
			expected: "ab",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := Sample(strings.NewReader(test.text), test.n)
			if err != nil {
				t.Fatalf("Sample: %v", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Sample (-want, +got):\n%s", diff)
			}
		})
	}
}
