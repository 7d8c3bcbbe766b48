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

package htmltext

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	italicMarker = "_"
	boldMarker   = "**"
)

// blockElements are separated from surrounding text by a blank line.
var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Caption:    true,
	atom.Details:    true,
	atom.Dialog:     true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hgroup:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Summary:    true,
	atom.Table:      true,
	atom.Ul:         true,
}

// lineElements start on a new line.
var lineElements = map[atom.Atom]bool{
	atom.Dd: true,
	atom.Dt: true,
	atom.Li: true,
	atom.Tr: true,
}

// emphasisMarkers maps emphasis elements to their markers.
var emphasisMarkers = map[atom.Atom]string{
	atom.B:      boldMarker,
	atom.Strong: boldMarker,
	atom.Cite:   italicMarker,
	atom.Dfn:    italicMarker,
	atom.Em:     italicMarker,
	atom.I:      italicMarker,
	atom.Var:    italicMarker,
}

// renderer writes the text of an HTML node tree.
type renderer struct {
	buf strings.Builder

	// space is true if collapsed whitespace is waiting to be written before
	// the next text.
	space bool

	// newlines is the number of newlines at the end of buf.
	newlines int

	// pending are opening emphasis markers waiting for the first rune of
	// their content. Empty emphasis is never written.
	pending []string

	// pre is the depth of nested <pre> elements.
	pre int
}

func (r *renderer) String() string {
	return r.buf.String()
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		r.walkChildren(n)
		return
	case html.TextNode:
		if r.pre > 0 {
			r.preformatted(n.Data)
		} else {
			r.text(n.Data)
		}
		return
	case html.ElementNode:
	default:
		// Comments, doctypes etc.
		return
	}

	switch n.DataAtom {
	case atom.Br:
		r.lineBreak()
		return
	case atom.Hr:
		r.paragraph()
		return
	case atom.Td, atom.Th:
		r.space = true
	}

	block := blockElements[n.DataAtom]
	line := lineElements[n.DataAtom]
	marker := emphasisMarkers[n.DataAtom]

	switch {
	case block:
		r.paragraph()
	case line:
		r.newline()
	}
	if n.DataAtom == atom.Pre {
		r.pre++
	}
	if marker != "" {
		r.pending = append(r.pending, marker)
	}

	r.walkChildren(n)

	if marker != "" {
		r.closeEmphasis(marker)
	}
	if n.DataAtom == atom.Pre {
		r.pre--
	}
	switch {
	case block:
		r.paragraph()
	case line:
		r.newline()
	}
}

func (r *renderer) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

// text writes s with whitespace runs collapsed.
func (r *renderer) text(s string) {
	for _, c := range s {
		if unicode.IsSpace(c) {
			r.space = true
			continue
		}
		r.beginContent()
		r.buf.WriteRune(c)
		r.newlines = 0
	}
}

// preformatted writes s keeping its line structure.
func (r *renderer) preformatted(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, c := range s {
		if c == '\n' {
			r.buf.WriteByte('\n')
			r.newlines++
			r.space = false
			continue
		}
		r.beginContent()
		r.buf.WriteRune(c)
		r.newlines = 0
	}
}

// beginContent writes any pending space and emphasis markers before a rune
// of content.
func (r *renderer) beginContent() {
	if r.space && r.newlines == 0 && r.buf.Len() > 0 {
		r.buf.WriteByte(' ')
	}
	r.space = false
	for _, m := range r.pending {
		r.buf.WriteString(m)
	}
	r.pending = r.pending[:0]
}

// closeEmphasis ends an emphasis element. If nothing was written since the
// element was opened its opening marker is still pending and is discarded.
func (r *renderer) closeEmphasis(marker string) {
	if n := len(r.pending); n > 0 {
		r.pending = r.pending[:n-1]
		return
	}
	r.buf.WriteString(marker)
	r.newlines = 0
}

// lineBreak writes a hard line break.
func (r *renderer) lineBreak() {
	r.buf.WriteByte('\n')
	r.newlines++
	r.space = false
}

// newline makes sure the next content starts on a new line.
func (r *renderer) newline() {
	r.space = false
	if r.buf.Len() == 0 || r.newlines > 0 {
		return
	}
	r.buf.WriteByte('\n')
	r.newlines++
}

// paragraph makes sure the next content starts after a blank line.
func (r *renderer) paragraph() {
	r.space = false
	if r.buf.Len() == 0 {
		return
	}
	for r.newlines < 2 {
		r.buf.WriteByte('\n')
		r.newlines++
	}
}
