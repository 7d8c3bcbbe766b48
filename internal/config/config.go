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

// Package config reads the bookwords YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfig indicates an invalid configuration file.
var ErrConfig = errors.New("invalid config")

// Config holds default settings for the command line tool. Command line
// flags take precedence.
type Config struct {
	// Dictionary is the path of the dictionary store.
	Dictionary string `yaml:"dictionary"`

	// Blacklist is the path of the blacklist CSV file.
	Blacklist string `yaml:"blacklist"`

	// Workers is the number of concurrent workers. Zero means the default.
	Workers int `yaml:"workers"`

	// Strict makes missing content documents an error.
	Strict bool `yaml:"strict"`

	// Chinese enables dictionary annotation.
	Chinese bool `yaml:"chinese"`
}

// DefaultPath returns the path of the user's configuration file. It
// returns an empty string if the user configuration directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bookwords", "config.yaml")
}

// Read reads a configuration from r. Unknown keys are an error. An empty
// document is an empty configuration.
func Read(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative: %d", ErrConfig, c.Workers)
	}
	return &c, nil
}

// Load reads the configuration file at path. Relative file paths in the
// configuration are resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	c.Dictionary = resolve(dir, c.Dictionary)
	c.Blacklist = resolve(dir, c.Blacklist)

	return c, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
