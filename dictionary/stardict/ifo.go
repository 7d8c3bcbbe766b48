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

package stardict

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const ifoMagic = "StarDict's dict ifo file"

var keyRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Info is the metadata from a dictionary's .ifo file.
type Info struct {
	Version          string
	Bookname         string
	WordCount        int64
	SynWordCount     int64
	IdxFileSize      int64
	IdxOffsetBits    int
	SameTypeSequence []DataType
	Author           string
	Email            string
	Website          string
	Description      string
	Date             string
}

// ReadInfo reads and validates a .ifo file.
func ReadInfo(r io.Reader) (*Info, error) {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("reading ifo: %w", err)
		}
		return nil, fmt.Errorf("%w: empty ifo", ErrFormat)
	}
	if magic := strings.TrimPrefix(strings.TrimSpace(s.Text()), "\ufeff"); magic != ifoMagic {
		return nil, fmt.Errorf("%w: bad magic data %q", ErrFormat, magic)
	}

	metadata := map[string]string{}
	first := true
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: invalid line %q", ErrFormat, line)
		}
		key = strings.TrimSpace(key)
		if !keyRegex.MatchString(key) {
			return nil, fmt.Errorf("%w: invalid key %q", ErrFormat, key)
		}
		if first && key != "version" {
			return nil, fmt.Errorf("%w: missing version", ErrFormat)
		}
		first = false
		metadata[key] = strings.TrimSpace(value)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading ifo: %w", err)
	}

	return newInfo(metadata)
}

func newInfo(metadata map[string]string) (*Info, error) {
	info := &Info{
		Version:       metadata["version"],
		Bookname:      metadata["bookname"],
		IdxOffsetBits: 32,
		Author:        metadata["author"],
		Email:         metadata["email"],
		Website:       metadata["website"],
		Description:   metadata["description"],
		Date:          metadata["date"],
	}

	switch info.Version {
	case "2.4.2", "3.0.0":
	case "":
		return nil, fmt.Errorf("%w: missing version", ErrFormat)
	default:
		return nil, fmt.Errorf("%w: invalid version %q", ErrFormat, info.Version)
	}

	if info.Bookname == "" {
		return nil, fmt.Errorf("%w: missing bookname", ErrFormat)
	}

	var err error
	info.WordCount, err = strconv.ParseInt(metadata["wordcount"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad wordcount: %w", ErrFormat, err)
	}

	info.IdxFileSize, err = strconv.ParseInt(metadata["idxfilesize"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad idxfilesize: %w", ErrFormat, err)
	}

	if v := metadata["synwordcount"]; v != "" {
		info.SynWordCount, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad synwordcount: %w", ErrFormat, err)
		}
	}

	// idxoffsetbits is only valid for version 3.0.0.
	if v := metadata["idxoffsetbits"]; v != "" && info.Version == "3.0.0" {
		bits, err := strconv.Atoi(v)
		if err != nil || (bits != 32 && bits != 64) {
			return nil, fmt.Errorf("%w: invalid idxoffsetbits %q", ErrFormat, v)
		}
		info.IdxOffsetBits = bits
	}

	for _, c := range metadata["sametypesequence"] {
		t := DataType(c)
		if c > 0x7f || !t.valid() {
			return nil, fmt.Errorf("%w: invalid sametypesequence type %q", ErrFormat, c)
		}
		info.SameTypeSequence = append(info.SameTypeSequence, t)
	}

	return info, nil
}
