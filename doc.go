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

// Package bookwords builds vocabulary lists from books.
//
// Two pipelines are provided:
//
//  1. Convert extracts the readable prose from an EPUB archive into a plain
//     text file. Content documents are taken in manifest order, markup is
//     removed except for bold and italic emphasis, and whitespace is
//     normalized.
//  2. Dump counts the words of a plain text file and writes them to a CSV
//     file ranked by frequency, optionally annotated with translations from
//     a dictionary.
//
// Run picks the pipeline from the input file's extension.
package bookwords
