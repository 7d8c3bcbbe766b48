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
	"fmt"
	"log/slog"
	"sync"

	"github.com/ianlewis/go-bookwords/dictionary"
	"github.com/ianlewis/go-bookwords/wordfreq"
)

// Dump writes the vocabulary list of the text file opts.Input to the CSV
// file opts.Output and returns its path. A missing or unreadable input is
// logged and produces a list with only a header row.
func Dump(ctx context.Context, opts Options) (string, error) {
	r, err := dump(ctx, opts)
	if err != nil {
		return "", err
	}
	return r.Output, nil
}

func dump(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("input", opts.Input)
	log.Info("dumping",
		"output", opts.Output,
		"blacklist", opts.Blacklist,
		"annotate", opts.Translator != nil,
	)

	bl, err := wordfreq.LoadBlacklist(opts.Blacklist)
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped.
	}

	tally := wordfreq.CountFile(opts.Input)
	LogTally(log, opts.Input, tally)

	entries, err := Vocabulary(ctx, tally, bl, opts.Translator)
	if err != nil {
		return nil, err
	}

	if err := wordfreq.WriteCSVFile(opts.Output, entries); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped.
	}
	log.Info("Dump Success", "output", opts.Output, "words", len(entries))

	return &Result{
		Output:  opts.Output,
		Tally:   tally,
		Entries: entries,
	}, nil
}

// Vocabulary ranks the words in tally, omitting blacklisted words, and
// annotates them using t if it is not nil.
func Vocabulary(ctx context.Context, tally *wordfreq.Tally, bl wordfreq.Blacklist, t dictionary.Translator) ([]wordfreq.Entry, error) {
	entries := tally.Rank(bl)
	if t == nil {
		return entries, nil
	}
	if err := dictionary.Annotate(ctx, t, entries); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped.
	}
	return entries, nil
}

// CountFiles counts the words of the text files at paths using up to
// workers goroutines. The tally at index i belongs to paths[i].
func CountFiles(ctx context.Context, paths []string, workers int) ([]*wordfreq.Tally, error) {
	workers = max(1, workers)

	tallies := make([]*wordfreq.Tally, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, p := range paths {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, fmt.Errorf("counting words: %w", ctx.Err())
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			tallies[i] = wordfreq.CountFile(p)
		}()
	}
	wg.Wait()

	return tallies, nil
}

// LogTally logs the outcome of counting the words of path.
func LogTally(log *slog.Logger, path string, t *wordfreq.Tally) {
	switch t.Status {
	case wordfreq.StatusOK:
		log.Debug("counted words", "path", path, "words", t.Total(), "distinct", t.Len())
	case wordfreq.StatusNotFound:
		log.Warn("text file not found", "path", path)
	default:
		log.Warn("text file unreadable", "path", path, "error", t.Err)
	}
}
