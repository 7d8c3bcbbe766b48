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

package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"
)

// containerPath is the well-known location of the container file.
const containerPath = "META-INF/container.xml"

// fragmentMediaTypes are the manifest media types that hold book text.
var fragmentMediaTypes = []string{
	"application/xhtml+xml",
	"text/html",
}

// Manifest is the resolved reading order of an extracted archive.
type Manifest struct {
	// Package is the archive-relative path of the package document.
	Package string

	// Fragments are the absolute paths of the (X)HTML documents listed in the
	// manifest, in declaration order.
	Fragments []string

	// Missing are the archive-relative paths of (X)HTML documents listed in
	// the manifest but absent from the archive. They are not included in
	// Fragments.
	Missing []string
}

// ResolveOptions are options for [Resolve].
type ResolveOptions struct {
	// Strict causes Resolve to fail with [ErrMissingFragment] when a
	// manifest item is missing instead of skipping it.
	Strict bool
}

// Resolve reads the container and package documents of the archive extracted
// in dir and returns its content documents in manifest order.
func Resolve(dir string, opts *ResolveOptions) (*Manifest, error) {
	if opts == nil {
		opts = &ResolveOptions{}
	}

	pkgPath, err := readContainer(filepath.Join(dir, filepath.FromSlash(containerPath)))
	if err != nil {
		return nil, err
	}

	items, err := readManifestItems(filepath.Join(dir, filepath.FromSlash(pkgPath)))
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Package: pkgPath,
	}
	pkgDir := path.Dir(pkgPath)
	for _, item := range items {
		if !isFragment(item.mediaType) {
			continue
		}

		rel := resolveHref(pkgDir, item.href)
		if rel == "" {
			m.Missing = append(m.Missing, item.href)
			continue
		}
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(abs); err != nil || !info.Mode().IsRegular() {
			m.Missing = append(m.Missing, rel)
			continue
		}
		m.Fragments = append(m.Fragments, abs)
	}

	if opts.Strict && len(m.Missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFragment, strings.Join(m.Missing, ", "))
	}

	return m, nil
}

type manifestItem struct {
	href      string
	mediaType string
}

// readContainer returns the package document path named by the first
// rootfile element of the container file.
func readContainer(containerFile string) (string, error) {
	f, err := os.Open(containerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: missing %s", ErrMalformedArchive, containerPath)
		}
		return "", fmt.Errorf("opening %s: %w", containerPath, err)
	}
	defer f.Close()

	d := newDecoder(f)
	rootfile, err := nextElement(d, "rootfile")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %s has no rootfile", ErrMalformedArchive, containerPath)
		}
		return "", fmt.Errorf("%w: parsing %s: %w", ErrMalformedArchive, containerPath, err)
	}

	fullPath := strings.TrimSpace(attrValue(rootfile, "full-path"))
	if fullPath == "" || !isSafePath(fullPath) {
		return "", fmt.Errorf("%w: %s has invalid rootfile path %q", ErrMalformedArchive, containerPath, fullPath)
	}
	return path.Clean(fullPath), nil
}

// readManifestItems returns the item elements that are direct children of
// the first manifest element of the package document, in document order.
func readManifestItems(pkgFile string) ([]manifestItem, error) {
	f, err := os.Open(pkgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing package document %s", ErrMalformedArchive, filepath.Base(pkgFile))
		}
		return nil, fmt.Errorf("opening package document: %w", err)
	}
	defer f.Close()

	d := newDecoder(f)
	if _, err := nextElement(d, "manifest"); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: package document has no manifest", ErrMalformedArchive)
		}
		return nil, fmt.Errorf("%w: parsing package document: %w", ErrMalformedArchive, err)
	}

	var items []manifestItem
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Unterminated manifest. Keep what was read.
				return items, nil
			}
			return nil, fmt.Errorf("%w: parsing package manifest: %w", ErrMalformedArchive, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 && t.Name.Local == "item" {
				items = append(items, manifestItem{
					href:      attrValue(&t, "href"),
					mediaType: attrValue(&t, "media-type"),
				})
			}
		case xml.EndElement:
			if depth == 0 {
				// End of the manifest element.
				return items, nil
			}
			depth--
		}
	}
}

// newDecoder returns a lenient XML decoder. Producers frequently use HTML
// entities and non UTF-8 encodings in their package documents.
func newDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// nextElement advances d to the next start element whose local name is
// local, regardless of its namespace. It returns io.EOF if there is none.
func nextElement(d *xml.Decoder, local string) (*xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == local {
			return &se, nil
		}
	}
}

// attrValue returns the value of the attribute with the given local name,
// regardless of its namespace.
func attrValue(se *xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func isFragment(mediaType string) bool {
	mediaType = strings.TrimSpace(mediaType)
	for _, t := range fragmentMediaTypes {
		if strings.EqualFold(mediaType, t) {
			return true
		}
	}
	return false
}

// resolveHref resolves a manifest href relative to the package document's
// directory. It returns an empty string if the result would escape the
// archive root.
func resolveHref(pkgDir, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	resolved := path.Join(pkgDir, href)
	if !isSafePath(resolved) {
		return ""
	}
	return resolved
}
