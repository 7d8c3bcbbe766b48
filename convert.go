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
	"os"
	"strings"
	"sync"

	"github.com/ianlewis/go-bookwords/epub"
	"github.com/ianlewis/go-bookwords/htmltext"
)

// fragmentSeparator separates the text of consecutive content documents.
const fragmentSeparator = "\n\n"

// Convert extracts the text of the EPUB archive opts.Input into the text
// file opts.Output and returns its path. The output is only written once
// every content document has been converted. The extracted archive is
// removed before Convert returns.
func Convert(ctx context.Context, opts Options) (string, error) {
	r, err := convert(ctx, opts)
	if err != nil {
		return "", err
	}
	return r.Output, nil
}

func convert(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("input", opts.Input)
	log.Info("converting", "output", opts.Output, "workers", opts.Workers, "strict", opts.Strict)

	wd, err := epub.Extract(opts.Input, opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", opts.Input, err)
	}
	defer func() {
		if err := wd.Close(); err != nil {
			log.Warn("cleaning up", "dir", wd.Path(), "error", err)
		}
	}()

	m, err := epub.Resolve(wd.Path(), &epub.ResolveOptions{Strict: opts.Strict})
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", opts.Input, err)
	}
	for _, p := range m.Missing {
		log.Warn("missing content document", "path", p)
	}
	log.Debug("resolved manifest", "package", m.Package, "fragments", len(m.Fragments))

	texts, err := normalizeAll(ctx, m.Fragments, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", opts.Input, err)
	}

	//nolint:gosec // Output files are not sensitive.
	if err := os.WriteFile(opts.Output, []byte(assemble(texts)), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", opts.Output, err)
	}
	log.Info("Convert Success", "output", opts.Output)

	return &Result{
		Output:   opts.Output,
		Manifest: m,
	}, nil
}

// assemble joins the non-empty texts in order.
func assemble(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, fragmentSeparator)
}

type fragmentJob struct {
	index int
	path  string
}

type fragmentResult struct {
	index int
	text  string
	err   error
}

// normalizeAll converts the content documents at paths using up to workers
// goroutines. The result at index i is the text of paths[i] regardless of
// the order in which the documents finish.
func normalizeAll(ctx context.Context, paths []string, workers int) ([]string, error) {
	workers = max(1, min(workers, len(paths)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan fragmentJob)
	results := make(chan fragmentResult, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := ctx.Err(); err != nil {
					results <- fragmentResult{index: job.index, err: err}
					continue
				}
				text, err := normalizeFile(job.path)
				results <- fragmentResult{index: job.index, text: text, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- fragmentJob{index: i, path: p}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	texts := make([]string, len(paths))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		texts[r.index] = r.text
	}
	if firstErr == nil {
		// Jobs may have stopped being sent because ctx was canceled.
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return texts, nil
}

func normalizeFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	text, err := htmltext.Normalize(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}
