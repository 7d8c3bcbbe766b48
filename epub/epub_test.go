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
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-bookwords/internal/testutil"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := testutil.MakeEPUB(t, dir, "book.epub", []testutil.File{
		{Name: "mimetype", Body: "application/epub+zip"},
		{Name: "META-INF/container.xml", Body: testutil.Container("OEBPS/content.opf")},
		{Name: "OEBPS/ch1.xhtml", Body: "chapter one"},
	})

	parent := filepath.Join(dir, "work")
	w, err := Extract(archive, parent)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(w.Path()), "temp_epub_") {
		t.Errorf("Path: unexpected name %q", w.Path())
	}
	if want, got := parent, filepath.Dir(w.Path()); want != got {
		t.Errorf("Path: want parent %q, got %q", want, got)
	}

	b, err := os.ReadFile(filepath.Join(w.Path(), "OEBPS", "ch1.xhtml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff("chapter one", string(b)); diff != "" {
		t.Errorf("extracted file (-want, +got):\n%s", diff)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(w.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Stat after Close: want %v, got %v", fs.ErrNotExist, err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestExtract_unique(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := testutil.MakeEPUB(t, dir, "book.epub", []testutil.File{
		{Name: "a.txt", Body: "a"},
	})

	w1, err := Extract(archive, dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer w1.Close()
	w2, err := Extract(archive, dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer w2.Close()

	if w1.Path() == w2.Path() {
		t.Fatalf("Extract: work directories collide: %q", w1.Path())
	}
}

func TestExtract_errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notZip := filepath.Join(dir, "notzip.epub")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	slip := testutil.MakeEPUB(t, dir, "slip.epub", []testutil.File{
		{Name: "ok.txt", Body: "ok"},
		{Name: "../../evil.txt", Body: "evil"},
	})

	tests := []struct {
		name    string
		archive string
		err     error
	}{
		{
			name:    "missing archive",
			archive: filepath.Join(dir, "missing.epub"),
			err:     ErrNotFound,
		},
		{
			name:    "directory",
			archive: dir,
			err:     ErrNotFound,
		},
		{
			name:    "not a zip",
			archive: notZip,
			err:     ErrMalformedArchive,
		},
		{
			name:    "path traversal",
			archive: slip,
			err:     ErrMalformedArchive,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			parent := t.TempDir()
			_, err := Extract(test.archive, parent)
			if !errors.Is(err, test.err) {
				t.Fatalf("Extract: want %v, got %v", test.err, err)
			}

			// No work directory is left behind.
			entries, err := os.ReadDir(parent)
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("ReadDir: unexpected entries %v", entries)
			}
		})
	}
}

func TestExtract_missingParent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := testutil.MakeEPUB(t, dir, "book.epub", []testutil.File{
		{Name: "mimetype", Body: "application/epub+zip"},
	})
	parent := filepath.Join(dir, "out", "nested")

	if _, err := Extract(archive, parent); err == nil {
		t.Fatal("Extract: expected an error")
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat: want %v, got %v", os.ErrNotExist, err)
	}
}

func Test_extractFile_limit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("big.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte("a"), 100)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := extractFile(dir, zr.File[0], 10); !errors.Is(err, ErrMalformedArchive) {
		t.Fatalf("extractFile: want %v, got %v", ErrMalformedArchive, err)
	}
	if err := extractFile(dir, zr.File[0], 100); err != nil {
		t.Fatalf("extractFile: %v", err)
	}
}

func Test_isSafePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"OEBPS/ch1.xhtml":       true,
		"META-INF/":             true,
		"a/../b.xhtml":          true,
		"":                      false,
		"/etc/passwd":           false,
		"../evil":               false,
		"OEBPS/../../evil":      false,
		"OEBPS/./text/../a.htm": true,
	}

	for p, want := range tests {
		if got := isSafePath(p); got != want {
			t.Errorf("isSafePath(%q): want %v, got %v", p, want, got)
		}
	}
}

// extract builds an archive from files and extracts it, returning the work
// directory path.
func extract(t *testing.T, files []testutil.File) string {
	t.Helper()

	dir := t.TempDir()
	archive := testutil.MakeEPUB(t, dir, "book.epub", files)
	w, err := Extract(archive, dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w.Path()
}

func TestResolve(t *testing.T) {
	t.Parallel()

	items := []testutil.Item{
		{ID: "cover", Href: "images/cover.jpg", MediaType: "image/jpeg"},
		{ID: "ch2", Href: "text/ch2.xhtml", MediaType: "application/xhtml+xml"},
		{ID: "css", Href: "style.css", MediaType: "text/css"},
		{ID: "ch1", Href: "text/ch1.xhtml", MediaType: "application/xhtml+xml"},
		{ID: "ch3", Href: "text/chapter%203.html", MediaType: "text/html"},
		{ID: "gone", Href: "text/gone.xhtml", MediaType: "application/xhtml+xml"},
	}

	// Files are stored in an order unrelated to the manifest.
	dir := extract(t, []testutil.File{
		{Name: "OEBPS/text/chapter 3.html", Body: "<p>three</p>"},
		{Name: "OEBPS/text/ch1.xhtml", Body: "<p>one</p>"},
		{Name: "OEBPS/content.opf", Body: testutil.Package(items)},
		{Name: "OEBPS/text/ch2.xhtml", Body: "<p>two</p>"},
		{Name: "OEBPS/style.css", Body: "p {}"},
		{Name: "META-INF/container.xml", Body: testutil.Container("OEBPS/content.opf")},
	})

	m, err := Resolve(dir, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := &Manifest{
		Package: "OEBPS/content.opf",
		Fragments: []string{
			filepath.Join(dir, "OEBPS", "text", "ch2.xhtml"),
			filepath.Join(dir, "OEBPS", "text", "ch1.xhtml"),
			filepath.Join(dir, "OEBPS", "text", "chapter 3.html"),
		},
		Missing: []string{"OEBPS/text/gone.xhtml"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Resolve (-want, +got):\n%s", diff)
	}
}

func TestResolve_strict(t *testing.T) {
	t.Parallel()

	dir := extract(t, []testutil.File{
		{Name: "META-INF/container.xml", Body: testutil.Container("content.opf")},
		{Name: "content.opf", Body: testutil.Package([]testutil.Item{
			{ID: "gone", Href: "gone.xhtml", MediaType: "application/xhtml+xml"},
		})},
	})

	if _, err := Resolve(dir, &ResolveOptions{Strict: true}); !errors.Is(err, ErrMissingFragment) {
		t.Fatalf("Resolve: want %v, got %v", ErrMissingFragment, err)
	}

	m, err := Resolve(dir, &ResolveOptions{Strict: false})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(m.Fragments) != 0 {
		t.Fatalf("Resolve: unexpected fragments %v", m.Fragments)
	}
	if diff := cmp.Diff([]string{"gone.xhtml"}, m.Missing); diff != "" {
		t.Fatalf("Missing (-want, +got):\n%s", diff)
	}
}

func TestResolve_namespaces(t *testing.T) {
	t.Parallel()

	container := `<?xml version="1.0"?>
<c:container xmlns:c="urn:example:nonstandard">
  <c:rootfiles><c:rootfile c:full-path="pkg/book.opf"/></c:rootfiles>
</c:container>`
	opf := `<?xml version="1.0"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf">
  <opf:manifest>
    <opf:item opf:href="a.xhtml" opf:media-type="application/xhtml+xml"/>
    <opf:item href="b.xhtml" media-type="APPLICATION/XHTML+XML"/>
  </opf:manifest>
</opf:package>`

	dir := extract(t, []testutil.File{
		{Name: "META-INF/container.xml", Body: container},
		{Name: "pkg/book.opf", Body: opf},
		{Name: "pkg/b.xhtml", Body: "b"},
		{Name: "pkg/a.xhtml", Body: "a"},
	})

	m, err := Resolve(dir, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		filepath.Join(dir, "pkg", "a.xhtml"),
		filepath.Join(dir, "pkg", "b.xhtml"),
	}
	if diff := cmp.Diff(want, m.Fragments); diff != "" {
		t.Fatalf("Fragments (-want, +got):\n%s", diff)
	}
}

func TestResolve_nestedItemsIgnored(t *testing.T) {
	t.Parallel()

	opf := `<package><manifest>
  <item href="a.xhtml" media-type="text/html"/>
  <group><item href="b.xhtml" media-type="text/html"/></group>
</manifest>
<manifest><item href="c.xhtml" media-type="text/html"/></manifest>
</package>`

	dir := extract(t, []testutil.File{
		{Name: "META-INF/container.xml", Body: testutil.Container("content.opf")},
		{Name: "content.opf", Body: opf},
		{Name: "a.xhtml", Body: "a"},
		{Name: "b.xhtml", Body: "b"},
		{Name: "c.xhtml", Body: "c"},
	})

	m, err := Resolve(dir, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "a.xhtml")}, m.Fragments); diff != "" {
		t.Fatalf("Fragments (-want, +got):\n%s", diff)
	}
}

func TestResolve_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []testutil.File
		err   error
	}{
		{
			name: "missing container",
			files: []testutil.File{
				{Name: "content.opf", Body: testutil.Package(nil)},
			},
			err: ErrMalformedArchive,
		},
		{
			name: "no rootfile",
			files: []testutil.File{
				{Name: "META-INF/container.xml", Body: `<container><rootfiles/></container>`},
			},
			err: ErrMalformedArchive,
		},
		{
			name: "escaping rootfile",
			files: []testutil.File{
				{Name: "META-INF/container.xml", Body: testutil.Container("../content.opf")},
			},
			err: ErrMalformedArchive,
		},
		{
			name: "missing package document",
			files: []testutil.File{
				{Name: "META-INF/container.xml", Body: testutil.Container("content.opf")},
			},
			err: ErrMalformedArchive,
		},
		{
			name: "no manifest",
			files: []testutil.File{
				{Name: "META-INF/container.xml", Body: testutil.Container("content.opf")},
				{Name: "content.opf", Body: `<package><metadata/></package>`},
			},
			err: ErrMalformedArchive,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := extract(t, test.files)
			if _, err := Resolve(dir, nil); !errors.Is(err, test.err) {
				t.Fatalf("Resolve: want %v, got %v", test.err, err)
			}
		})
	}
}
