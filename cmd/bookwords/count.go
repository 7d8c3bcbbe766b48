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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-bookwords"
	"github.com/ianlewis/go-bookwords/dictionary"
	"github.com/ianlewis/go-bookwords/internal/langdetect"
	"github.com/ianlewis/go-bookwords/wordfreq"
)

func newCountCommand() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Write one vocabulary list for several text files",
		ArgsUsage: "FILE...",
		Description: strings.Join([]string{
			"Counts the words of each text file concurrently and writes the",
			"combined vocabulary list to the --output file. With a single",
			"file the output defaults to a .bookwords.csv file next to it.",
		}, "\n"),
		Flags:        []cli.Flag{helpFlag()},
		HideHelp:     true,
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowCommandHelp(c, c.Command.Name))
				return nil
			}
			return runCount(c)
		},
	}
}

func runCount(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("%w: count requires at least one file", ErrFlagParse)
	}

	s, err := newSettings(c)
	if err != nil {
		return err
	}

	output := s.output
	if output == "" {
		if len(files) > 1 {
			return fmt.Errorf("%w: --output is required with more than one file", ErrFlagParse)
		}
		output = bookwords.DefaultOutput(files[0])
		if output == "" {
			return fmt.Errorf("%w: %s", bookwords.ErrUnsupportedInput, files[0])
		}
	}

	bl, err := wordfreq.LoadBlacklist(s.blacklist)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}

	store, err := s.openDictionary()
	if err != nil {
		return err
	}
	var t dictionary.Translator
	if store != nil {
		defer store.Close()
		t = store
	}

	for _, f := range files {
		warnLanguage(c.Context, s.log, f)
	}

	tallies, err := bookwords.CountFiles(c.Context, files, s.workers)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}
	total := wordfreq.NewTally()
	for i, tally := range tallies {
		bookwords.LogTally(s.log, files[i], tally)
		total.Merge(tally)
	}

	entries, err := bookwords.Vocabulary(c.Context, total, bl, t)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}
	if err := wordfreq.WriteCSVFile(output, entries); err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}
	s.log.Info("Count Success", "output", output, "files", len(files), "words", len(entries))

	return printTop(c.App.Writer, entries, s.top, t != nil)
}

// warnLanguage logs a warning if the text file at path does not look like
// English. Words are only recognized in ASCII letters.
func warnLanguage(ctx context.Context, log *slog.Logger, path string) {
	if !log.Enabled(ctx, slog.LevelWarn) {
		return
	}

	sample, err := langdetect.SampleFile(path)
	if err != nil || strings.TrimSpace(sample) == "" {
		// Missing files are reported by the word count.
		return
	}

	d := langdetect.New()
	if d.IsEnglish(sample) {
		return
	}
	lang, _ := d.Detect(sample)
	log.Warn("text does not look like English", "path", path, "language", lang.String())
}
