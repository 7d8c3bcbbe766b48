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

// Package langdetect guesses the language of book text.
package langdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// SampleSize is the number of bytes of a file used for detection.
const SampleSize = 16 * 1024

// Languages are the languages a Detector distinguishes between.
var Languages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Detector detects the language of text.
type Detector struct {
	d lingua.LanguageDetector
}

// New returns a Detector for Languages.
func New() *Detector {
	return &Detector{
		d: lingua.NewLanguageDetectorBuilder().FromLanguages(Languages...).Build(),
	}
}

// Detect returns the most likely language of text. It returns false if the
// language could not be determined.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	return d.d.DetectLanguageOf(text)
}

// IsEnglish reports whether text is English. Text in an undetermined
// language is assumed to be English.
func (d *Detector) IsEnglish(text string) bool {
	lang, ok := d.Detect(text)
	return !ok || lang == lingua.English
}

// Sample reads up to n bytes from r as text. A rune split at the end of the
// sample is dropped and invalid UTF-8 is removed.
func Sample(r io.Reader, n int) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return "", fmt.Errorf("reading sample: %w", err)
	}
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		if c, _ := utf8.DecodeLastRune(b); c != utf8.RuneError {
			break
		}
		b = b[:len(b)-1]
	}
	return string(bytes.ToValidUTF8(b, nil)), nil
}

// SampleFile reads up to SampleSize bytes from the file at path.
func SampleFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening sample: %w", err)
	}
	defer f.Close()
	return Sample(f, SampleSize)
}
