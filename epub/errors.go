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

import "errors"

var (
	// ErrNotFound indicates that the archive does not exist.
	ErrNotFound = errors.New("epub: archive not found")

	// ErrMalformedArchive indicates that the archive is not a readable EPUB,
	// for example because META-INF/container.xml is missing.
	ErrMalformedArchive = errors.New("epub: malformed archive")

	// ErrMissingFragment is returned in strict mode when a content document
	// listed in the manifest is missing from the archive.
	ErrMissingFragment = errors.New("epub: missing fragment")
)
