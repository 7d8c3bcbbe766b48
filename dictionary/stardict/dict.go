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
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/k3a/html2text"
)

// DataType is a type of data in a word. Data types are specified by a single
// byte at the beginning of a word. Lower case characters represent string-like
// data that is terminated by a null terminator ('\0'). Upper case characters
// represent file-like data that starts with a 32-bit size followed by file
// data.
type DataType byte

const (
	// UTFTextType is utf-8 text.
	UTFTextType = DataType('m')

	// LocaleTextType is text in a locale encoding.
	LocaleTextType = DataType('l')

	// PangoTextType is utf-8 text in the Pango text format.
	PangoTextType = DataType('g')

	// PhoneticType is utf-8 text representing an English phonetic string.
	PhoneticType = DataType('t')

	// XDXFType is utf-8 encoded xml in XDXF format.
	XDXFType = DataType('x')

	// YinBiaoOrKataType is utf-8 encoded Yin Biao or Kana phonetic string.
	YinBiaoOrKataType = DataType('y')

	// PowerWordType is a utf-8 encoded KingSoft PowerWord XML format.
	PowerWordType = DataType('p')

	// MediaWikiType is utf-8 encoded text in MediaWiki format.
	MediaWikiType = DataType('w')

	// HTMLType is utf-8 encoded HTML text.
	HTMLType = DataType('h')

	// WordNetType is WordNet data.
	WordNetType = DataType('n')

	// ResourceFileListType is a list of files in resource storage.
	ResourceFileListType = DataType('r')

	// WavType is .wav sound file data.
	WavType = DataType('W')

	// PictureType is image file data.
	PictureType = DataType('P')

	// ExperimentalType is reserved for experimental features.
	ExperimentalType = DataType('X')
)

func (t DataType) valid() bool {
	switch t {
	case UTFTextType,
		LocaleTextType,
		PangoTextType,
		PhoneticType,
		XDXFType,
		YinBiaoOrKataType,
		PowerWordType,
		MediaWikiType,
		HTMLType,
		WordNetType,
		ResourceFileListType,
		WavType,
		PictureType,
		ExperimentalType:
		return true
	default:
		return false
	}
}

// stringLike reports whether data of type t is null terminated.
func (t DataType) stringLike() bool {
	return 'a' <= t && t <= 'z'
}

// Data is a data item of a word.
type Data struct {
	Type DataType
	Data []byte
}

// Text returns the data as plain text if it is a textual definition. Markup
// is removed. It returns false for phonetics and binary data.
func (d Data) Text() (string, bool) {
	switch d.Type {
	case UTFTextType, LocaleTextType, YinBiaoOrKataType, MediaWikiType:
		return string(d.Data), true
	case PangoTextType, XDXFType, HTMLType:
		return html2text.HTML2Text(string(d.Data)), true
	default:
		return "", false
	}
}

// parseWord splits the raw data of a word into its data items. When
// sametypesequence is set the items carry no type byte and the final item
// has neither a terminator nor a size.
func parseWord(b []byte, sametypesequence []DataType) ([]Data, error) {
	var data []Data

	if len(sametypesequence) > 0 {
		for i, t := range sametypesequence {
			last := i == len(sametypesequence)-1
			var d []byte
			var err error
			d, b, err = nextItem(b, t, last)
			if err != nil {
				return nil, err
			}
			data = append(data, Data{Type: t, Data: d})
		}
		return data, nil
	}

	for len(b) > 0 {
		t := DataType(b[0])
		if !t.valid() {
			return nil, fmt.Errorf("%w: invalid data type %q", ErrFormat, byte(t))
		}
		var d []byte
		var err error
		d, b, err = nextItem(b[1:], t, false)
		if err != nil {
			return nil, err
		}
		data = append(data, Data{Type: t, Data: d})
	}
	return data, nil
}

// nextItem returns the next item of type t from b and the remaining bytes.
func nextItem(b []byte, t DataType, last bool) ([]byte, []byte, error) {
	if last {
		if t.stringLike() {
			// Tolerate a trailing terminator.
			return bytes.TrimSuffix(b, []byte{0}), nil, nil
		}
		return b, nil, nil
	}

	if t.stringLike() {
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			// The final item may be missing its terminator.
			return b, nil, nil
		}
		return b[:i], b[i+1:], nil
	}

	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated data size", ErrFormat)
	}
	size := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint64(size) > uint64(len(b)) {
		return nil, nil, fmt.Errorf("%w: data size %d exceeds word size", ErrFormat, size)
	}
	return b[:size], b[size:], nil
}

// definition joins the textual items of a word.
func definition(data []Data) string {
	var parts []string
	for _, d := range data {
		if text, ok := d.Text(); ok {
			if text = strings.TrimSpace(text); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
