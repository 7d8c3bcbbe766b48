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

// Package htmltext converts (X)HTML documents into plain text.
//
// Markup is removed except for emphasis, which is kept as lightweight
// markdown style markers: italic text is written as _text_ and bold text as
// **text**. Links keep their text, images are dropped entirely and lines are
// never wrapped. Paragraphs are separated by a single blank line.
package htmltext

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-bookwords/internal/folding"
)

// droppedElements are removed together with their content.
var droppedElements = []string{
	"head",
	"title",
	"script",
	"style",
	"noscript",
	"template",
	"svg",
	"img",
	"object",
	"iframe",
}

// selfClosingPattern matches elements that are legal as self-closing tags in
// XHTML but are parsed as raw text elements by an HTML parser. Left alone,
// <title/> would swallow the rest of the document.
var selfClosingPattern = regexp.MustCompile(`(?is)<(script|style|title|textarea|iframe|noscript)\b([^>]*)/>`)

var bom = []byte("\xef\xbb\xbf")

// Normalize converts the (X)HTML document raw into plain text. The markup is
// parsed tolerantly so unclosed or malformed tags do not cause errors. An
// empty string is returned for documents without text.
func Normalize(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, bom)
	raw = selfClosingPattern.ReplaceAll(raw, []byte(`<$1$2></$1>`))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc.Find(strings.Join(droppedElements, ",")).Remove()

	var r renderer
	for _, n := range doc.Nodes {
		r.walk(n)
	}

	return Clean(r.String())
}

// Clean collapses runs of three or more newlines into a single blank line,
// runs of spaces into a single space and trims leading and trailing
// whitespace.
func Clean(s string) (string, error) {
	s, _, err := transform.String(transform.Chain(folding.Newlines(), folding.Spaces()), s)
	if err != nil {
		return "", fmt.Errorf("folding text: %w", err)
	}
	return strings.TrimSpace(s), nil
}
