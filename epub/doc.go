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

// Package epub unpacks EPUB archives and resolves the reading order of their
// content documents.
//
// An EPUB is a zip archive. The file META-INF/container.xml points at a
// package document (the OPF), whose manifest lists every resource in the
// book together with its media type. [Extract] unpacks an archive into a
// scoped working directory and [Resolve] reads the container and manifest to
// produce the (X)HTML fragments of the book in manifest order.
//
// XML is matched on local element and attribute names only. Namespace
// prefixes are ignored so that books produced by tools that emit
// non-standard namespaces are still readable.
package epub
