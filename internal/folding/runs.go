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

// Package folding implements text transformers that fold runs of characters.
package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// RunFolder replaces every run of runes matched by In with at most Max copies
// of Rune. When Trim is true, leading and trailing runs are removed entirely.
type RunFolder struct {
	// In reports whether a rune belongs to a run.
	In func(rune) bool

	// Rune is emitted in place of a run.
	Rune rune

	// Max is the maximum number of Runes emitted for a single run.
	Max int

	// Trim drops runs at the start and end of the input.
	Trim bool

	// run is the length of the run currently being folded.
	run int

	// started is true after the first rune outside of a run is emitted.
	started bool
}

// Spaces returns a transformer that collapses runs of two or more ASCII
// spaces into a single space. Newlines and tabs are left alone.
func Spaces() transform.Transformer {
	return &RunFolder{
		In:   func(r rune) bool { return r == ' ' },
		Rune: ' ',
		Max:  1,
	}
}

// Newlines returns a transformer that collapses runs of three or more
// newlines into exactly two.
func Newlines() transform.Transformer {
	return &RunFolder{
		In:   func(r rune) bool { return r == '\n' },
		Rune: '\n',
		Max:  2,
	}
}

// Whitespace returns a transformer that removes leading and trailing
// whitespace and replaces all internal whitespace spans with a single ASCII
// space.
func Whitespace() transform.Transformer {
	return &RunFolder{
		In:   unicode.IsSpace,
		Rune: ' ',
		Max:  1,
		Trim: true,
	}
}

// Transform implements [transform.Transformer.Transform].
func (f *RunFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nDst, nSrc int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		c, size := utf8.DecodeRune(src[nSrc:])

		if f.In(c) {
			f.run++
			nSrc += size
			continue
		}

		n, err := f.flush(dst[nDst:])
		nDst += n
		if err != nil {
			return nDst, nSrc, err
		}

		// NOTE: the source bytes are copied as-is so that invalid UTF-8 is
		// passed through unchanged.
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
		f.started = true
	}

	if atEOF {
		if f.Trim {
			// Trailing runs are never emitted when trimming.
			f.run = 0
			return nDst, nSrc, nil
		}
		n, err := f.flush(dst[nDst:])
		nDst += n
		if err != nil {
			return nDst, nSrc, err
		}
	}

	return nDst, nSrc, nil
}

// flush writes the folded form of the pending run to dst.
func (f *RunFolder) flush(dst []byte) (int, error) {
	if f.run == 0 {
		return 0, nil
	}
	if f.Trim && !f.started {
		// Leading run.
		f.run = 0
		return 0, nil
	}

	count := min(f.run, f.Max)
	if count*utf8.RuneLen(f.Rune) > len(dst) {
		return 0, transform.ErrShortDst
	}
	n := 0
	for range count {
		n += utf8.EncodeRune(dst[n:], f.Rune)
	}
	f.run = 0
	return n, nil
}

// Reset implements [transform.Transformer.Reset].
func (f *RunFolder) Reset() {
	f.run = 0
	f.started = false
}
