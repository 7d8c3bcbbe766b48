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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// maxWordSize is the maximum size of a word in an index including its
// terminator.
const maxWordSize = 256

// idxWord is a single index entry locating a word's data in the .dict file.
type idxWord struct {
	Word   string
	Offset uint64
	Size   uint32
}

// readIdx reads all entries of a .idx file.
func readIdx(r io.Reader, offsetBits int) ([]idxWord, error) {
	if offsetBits != 32 && offsetBits != 64 {
		return nil, fmt.Errorf("%w: invalid idxoffsetbits %d", ErrFormat, offsetBits)
	}
	offsetSize := offsetBits / 8

	s := bufio.NewScanner(bufio.NewReader(r))
	s.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.IndexByte(data, 0); i >= 0 {
			// Found zero byte.
			tokenSize := i + 1 + offsetSize + 4
			if len(data) >= tokenSize {
				return tokenSize, data[:tokenSize], nil
			}
		} else if len(data) > maxWordSize {
			return 0, nil, fmt.Errorf("%w: word too long in index", ErrFormat)
		}
		if atEOF {
			return 0, nil, fmt.Errorf("%w: truncated index", ErrFormat)
		}
		// Request more data.
		return 0, nil, nil
	})

	var words []idxWord
	for s.Scan() {
		b := s.Bytes()
		i := bytes.IndexByte(b, 0)
		w := idxWord{
			Word: string(b[:i]),
		}
		b = b[i+1:]
		if offsetBits == 64 {
			w.Offset = binary.BigEndian.Uint64(b)
		} else {
			w.Offset = uint64(binary.BigEndian.Uint32(b))
		}
		w.Size = binary.BigEndian.Uint32(b[offsetSize:])
		words = append(words, w)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	return words, nil
}
