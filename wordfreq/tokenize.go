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

import "unicode"

// isWordRune reports whether r is a word character when looking for word
// boundaries. Letters and numbers of any script count, as does '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isTokenRune reports whether r may be part of a counted word.
func isTokenRune(r rune) bool {
	return r == '\'' || ('a' <= r && r <= 'z')
}

// words returns the words of the lower-cased line s. A word is a run of
// ASCII letters and apostrophes with a word boundary on both ends, so that
// contractions such as "don't" are one word. A word touching a non-ASCII
// letter is not split: "café" yields no word at all.
//
// Matching is leftmost and, at each start, longest first, the same as
// `\b[a-z']+\b` with Unicode word boundaries.
func words(s string) []string {
	rs := []rune(s)
	boundary := func(i int) bool {
		before := i > 0 && isWordRune(rs[i-1])
		after := i < len(rs) && isWordRune(rs[i])
		return before != after
	}

	var out []string
	for i := 0; i < len(rs); {
		if !isTokenRune(rs[i]) || !boundary(i) {
			i++
			continue
		}
		end := i
		for end < len(rs) && isTokenRune(rs[end]) {
			end++
		}
		// Back off to the last boundary in the run.
		j := end
		for j > i && !boundary(j) {
			j--
		}
		if j == i {
			i++
			continue
		}
		out = append(out, string(rs[i:j]))
		i = j
	}
	return out
}
