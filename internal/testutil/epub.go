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

// Package testutil contains fixtures shared by tests.
package testutil

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// File is a single entry in a test archive.
type File struct {
	Name string
	Body string
}

// Item is a manifest item in a test package document.
type Item struct {
	ID        string
	Href      string
	MediaType string
}

// MakeEPUB writes a zip archive named name into dir holding files in the
// given storage order and returns its path.
func MakeEPUB(t *testing.T, dir, name string, files []File) string {
	t.Helper()

	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(file.Body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	return p
}

// Container returns a META-INF/container.xml body pointing at pkgPath.
func Container(pkgPath string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path=%q media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`, pkgPath)
}

// Package returns a package document whose manifest lists items in order.
func Package(items []Item) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
  </metadata>
  <manifest>
`)
	for _, item := range items {
		fmt.Fprintf(&b, "    <item id=%q href=%q media-type=%q/>\n", item.ID, item.Href, item.MediaType)
	}
	b.WriteString(`  </manifest>
  <spine>
`)
	for _, item := range items {
		fmt.Fprintf(&b, "    <itemref idref=%q/>\n", item.ID)
	}
	b.WriteString(`  </spine>
</package>`)
	return b.String()
}

// XHTML wraps body in an XHTML document.
func XHTML(title, body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>
%s
</body>
</html>`, title, body)
}

// Chapter returns a manifest item and archive file for an XHTML chapter
// stored under OEBPS/.
func Chapter(id, body string) (Item, File) {
	href := id + ".xhtml"
	return Item{
			ID:        id,
			Href:      href,
			MediaType: "application/xhtml+xml",
		}, File{
			Name: "OEBPS/" + href,
			Body: XHTML(id, body),
		}
}
