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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-bookwords"
	"github.com/ianlewis/go-bookwords/dictionary"
	"github.com/ianlewis/go-bookwords/internal/config"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = errors.New("parsing flags")

// ErrNoDictionary indicates that no dictionary was given and none was found
// in the default locations.
var ErrNoDictionary = errors.New("no dictionary found")

var copyrightNames = []string{
	"2026 Ian Lewis",
}

// dictNames are the file names searched for in dictLocations.
var dictNames = []string{
	"dict.db",
	"ecdict.db",
	"ecdict.ifo",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// which prints a "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", ErrFlagParse, err)
}

func helpFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:               "help",
		Usage:              "print this help text and exit",
		Aliases:            []string{"h"},
		DisableDefaultText: true,
	}
}

func newBookwordsApp() *cli.App {
	return &cli.App{
		Name:  "bookwords",
		Usage: "Convert EPUB books to text and list their vocabulary.",
		Description: strings.Join([]string{
			"An .epub input is converted to plain text. A .txt input is",
			"turned into a CSV vocabulary list ranked by frequency.",
			"http://github.com/ianlewis/go-bookwords",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Usage:   "read the book from `FILE` (.epub or .txt)",
				Aliases: []string{"i"},
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "write the result to `FILE`",
				Aliases: []string{"o"},
			},
			&cli.BoolFlag{
				Name:               "chinese",
				Usage:              "annotate words with Chinese translations",
				Aliases:            []string{"c"},
				DisableDefaultText: true,
			},
			&cli.StringFlag{
				Name:    "blacklist",
				Usage:   "omit the words listed in the CSV `FILE`",
				Aliases: []string{"b"},
			},
			&cli.StringFlag{
				Name:    "dict",
				Usage:   "look up translations in `FILE` (.db or .ifo)",
				Aliases: []string{"d"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "read default settings from the YAML `FILE`",
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "process up to `N` files concurrently",
				Aliases: []string{"j"},
			},
			&cli.BoolFlag{
				Name:               "strict",
				Usage:              "fail if a book references missing content",
				DisableDefaultText: true,
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "print the `N` most frequent words",
			},
			&cli.BoolFlag{
				Name:               "quiet",
				Usage:              "only log errors",
				Aliases:            []string{"q"},
				DisableDefaultText: true,
			},

			// Special flags are shown at the end.
			helpFlag(),
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Writer:          os.Stdout,
		ErrWriter:       os.Stderr,
		OnUsageError:    usageError,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowAppHelp(c))
				return nil
			}
			if c.Bool("version") {
				return printVersion(c)
			}
			return runBook(c)
		},
		Commands: []*cli.Command{
			newQueryCommand(),
			newCountCommand(),
		},
	}
}

func runBook(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", ErrFlagParse, strings.Join(c.Args().Slice(), " "))
	}
	input := c.String("input")
	if input == "" {
		return fmt.Errorf("%w: missing required flag --input", ErrFlagParse)
	}

	s, err := newSettings(c)
	if err != nil {
		return err
	}

	opts := bookwords.Options{
		Input:     input,
		Output:    s.output,
		Blacklist: s.blacklist,
		Workers:   s.workers,
		Strict:    s.strict,
		Logger:    s.log,
	}

	// Only text files are annotated or checked for their language.
	if isText(input) {
		store, err := s.openDictionary()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			opts.Translator = store
		}
		warnLanguage(c.Context, s.log, input)
	}

	r, err := bookwords.Process(c.Context, opts)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped.
	}

	return printTop(c.App.Writer, r.Entries, s.top, opts.Translator != nil)
}

// settings are the effective options of a run. Flags set on the command
// line take precedence over the configuration file.
type settings struct {
	output    string
	blacklist string
	dict      string
	chinese   bool
	strict    bool
	workers   int
	top       int
	log       *slog.Logger
}

func newSettings(c *cli.Context) (*settings, error) {
	cfg, err := loadConfig(c.String("config"), c.IsSet("config"))
	if err != nil {
		return nil, err
	}

	s := &settings{
		output:    c.String("output"),
		blacklist: cfg.Blacklist,
		dict:      cfg.Dictionary,
		chinese:   cfg.Chinese,
		strict:    cfg.Strict,
		workers:   cfg.Workers,
		top:       c.Int("top"),
		log:       newLogger(c.App.ErrWriter, c.Bool("quiet")),
	}
	if c.IsSet("blacklist") {
		s.blacklist = c.String("blacklist")
	}
	if c.IsSet("dict") {
		s.dict = c.String("dict")
	}
	if c.IsSet("chinese") {
		s.chinese = c.Bool("chinese")
	}
	if c.IsSet("strict") {
		s.strict = c.Bool("strict")
	}
	if c.IsSet("workers") {
		s.workers = c.Int("workers")
	}

	if s.workers < 0 {
		return nil, fmt.Errorf("%w: invalid --workers: %d", ErrFlagParse, s.workers)
	}
	if s.workers == 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.top < 0 {
		return nil, fmt.Errorf("%w: invalid --top: %d", ErrFlagParse, s.top)
	}

	return s, nil
}

// loadConfig reads the configuration file at path. If path was not given
// explicitly the default location is used and a missing file is ignored.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if !explicit {
		path = config.DefaultPath()
	}
	if path == "" {
		return &config.Config{}, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &config.Config{}, nil
		}
		return nil, err //nolint:wrapcheck // already wrapped.
	}
	return cfg, nil
}

func newLogger(w io.Writer, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openDictionary opens the dictionary store if annotation is enabled. It
// returns nil if it is not.
func (s *settings) openDictionary() (dictionary.Store, error) {
	if !s.chinese {
		return nil, nil
	}

	path := s.dict
	if path == "" {
		var err error
		path, err = findDictionary(dictLocations())
		if err != nil {
			return nil, err
		}
	}
	s.log.Info("opening dictionary", "path", path)

	store, err := dictionary.Open(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped.
	}
	return store, nil
}

// findDictionary returns the first file named in dictNames found in dirs.
func findDictionary(dirs []string) (string, error) {
	for _, dir := range dirs {
		for _, name := range dictNames {
			p := filepath.Join(dir, name)
			if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s; use --dict", ErrNoDictionary, strings.Join(dirs, ", "))
}

func isText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
