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

package bookwords

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ianlewis/go-bookwords/dictionary"
	"github.com/ianlewis/go-bookwords/epub"
	"github.com/ianlewis/go-bookwords/wordfreq"
)

const (
	epubExt = ".epub"
	textExt = ".txt"

	// CSVSuffix is appended to the base name of a text file to name its
	// vocabulary list.
	CSVSuffix = ".bookwords.csv"
)

var (
	// ErrInputNotFound indicates that the input file does not exist.
	ErrInputNotFound = epub.ErrNotFound

	// ErrUnsupportedInput indicates that the input file is neither an EPUB
	// archive nor a text file.
	ErrUnsupportedInput = errors.New("unsupported input, please input .txt or .epub")
)

// Options configures a pipeline run.
type Options struct {
	// Input is the path of the .epub or .txt file to process.
	Input string

	// Output is the path of the file to write. Defaults to the value of
	// DefaultOutput for Input.
	Output string

	// Blacklist is the path of a CSV file of words excluded from the
	// vocabulary list.
	Blacklist string

	// Translator annotates the vocabulary list. Annotation is skipped if
	// Translator is nil.
	Translator dictionary.Translator

	// Workers is the number of content documents converted concurrently.
	// Defaults to GOMAXPROCS.
	Workers int

	// Strict makes content documents listed in the manifest but missing from
	// the archive an error.
	Strict bool

	// WorkDir is the directory in which the archive is extracted into a
	// temporary directory. Defaults to the directory of Output.
	WorkDir string

	// Logger receives progress messages. Defaults to discarding them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Output == "" {
		o.Output = DefaultOutput(o.Input)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.WorkDir == "" {
		o.WorkDir = filepath.Dir(o.Output)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result describes the outcome of a pipeline run.
type Result struct {
	// Output is the path of the file written.
	Output string

	// Manifest is the resolved manifest of a converted archive.
	Manifest *epub.Manifest

	// Tally holds the word counts of a dumped text file.
	Tally *wordfreq.Tally

	// Entries is the vocabulary list written by a dump.
	Entries []wordfreq.Entry
}

// DefaultOutput returns the default output path for input. EPUB archives
// are converted to a .txt file and text files to a .bookwords.csv file
// next to the input. It returns an empty string for other inputs.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	switch strings.ToLower(ext) {
	case epubExt:
		return base + textExt
	case textExt:
		return base + CSVSuffix
	default:
		return ""
	}
}

// Run runs the pipeline matching the extension of opts.Input and returns
// the path of the file written. Inputs other than .epub and .txt files are
// rejected with ErrUnsupportedInput before the file system is accessed.
func Run(ctx context.Context, opts Options) (string, error) {
	r, err := Process(ctx, opts)
	if err != nil {
		return "", err
	}
	return r.Output, nil
}

// Process is like Run but returns the full result.
func Process(ctx context.Context, opts Options) (*Result, error) {
	switch strings.ToLower(filepath.Ext(opts.Input)) {
	case epubExt:
		return convert(ctx, opts)
	case textExt:
		return dump(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, opts.Input)
	}
}
