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
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-bookwords/dictionary"
	"github.com/ianlewis/go-bookwords/wordfreq"
)

func newQueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Look up words in the dictionary",
		ArgsUsage: "WORD...",
		Description: strings.Join([]string{
			"Prints the translation of each word as it would appear in a",
			"vocabulary list. Words without a translation are printed as is.",
		}, "\n"),
		Flags:        []cli.Flag{helpFlag()},
		HideHelp:     true,
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowCommandHelp(c, c.Command.Name))
				return nil
			}
			return runQuery(c)
		},
	}
}

func runQuery(c *cli.Context) error {
	words := c.Args().Slice()
	if len(words) == 0 {
		return fmt.Errorf("%w: query requires at least one word", ErrFlagParse)
	}

	s, err := newSettings(c)
	if err != nil {
		return err
	}
	s.chinese = true

	store, err := s.openDictionary()
	if err != nil {
		return err
	}
	defer store.Close()

	entries := make([]wordfreq.Entry, len(words))
	for i, w := range words {
		entries[i].Word = strings.ToLower(strings.TrimSpace(w))
	}
	if err := dictionary.Annotate(c.Context, store, entries); err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}

	tbl := table.New("Word", "Chinese").WithWriter(c.App.Writer)
	for _, e := range entries {
		tbl.AddRow(e.Word, e.Translation)
	}
	tbl.Print()

	return nil
}
