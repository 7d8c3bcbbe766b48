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

package main

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-bookwords/wordfreq"
)

func printVersion(c *cli.Context) error {
	versionInfo := version.GetVersionInfo()
	w := c.App.Writer

	_, _ = fmt.Fprintf(w, "%s %s\n", c.App.Name, versionInfo.GitVersion)
	_, _ = fmt.Fprintf(w, "commit %s (%s)\n", versionInfo.GitCommit, versionInfo.GoVersion)
	for _, name := range copyrightNames {
		_, _ = fmt.Fprintf(w, "Copyright (c) %s\n", name)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "License Apache 2.0: <https://www.apache.org/licenses/LICENSE-2.0>")

	return nil
}

// printTop prints the first n entries as a table. The Chinese column is
// printed only for annotated entries.
func printTop(w io.Writer, entries []wordfreq.Entry, n int, annotated bool) error {
	if n <= 0 || len(entries) == 0 {
		return nil
	}

	headers := []any{"Word", "Count"}
	if annotated {
		headers = append(headers, "Chinese")
	}
	tbl := table.New(headers...).WithWriter(w)
	for _, e := range entries[:min(n, len(entries))] {
		row := []any{e.Word, e.Count}
		if annotated {
			row = append(row, e.Translation)
		}
		tbl.AddRow(row...)
	}
	tbl.Print()

	return nil
}
