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

// Package ecdict reads English-Chinese dictionaries stored in the ECDICT
// SQLite layout. Entries live in a table named stardict with at least the
// columns word and translation.
package ecdict

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Table is the name of the table holding dictionary entries.
const Table = "stardict"

const lookupQuery = `SELECT translation FROM ` + Table + ` WHERE word = ? COLLATE NOCASE ORDER BY rowid LIMIT 1`

// ErrSchema indicates that the database does not hold an ECDICT table.
var ErrSchema = errors.New("ecdict: missing stardict table")

// Dictionary is a read-only ECDICT database.
type Dictionary struct {
	db   *sql.DB
	path string
}

// Open opens the ECDICT database at path. The database is never created or
// modified.
func Open(path string) (*Dictionary, error) {
	// The driver would otherwise create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %q: %w", path, err)
	}
	// query_only is a per connection setting.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening dictionary %q: %w", path, err)
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", Table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s", ErrSchema, path)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reading dictionary %q: %w", path, err)
	}

	return &Dictionary{
		db:   db,
		path: path,
	}, nil
}

// Path returns the path of the database file.
func (d *Dictionary) Path() string {
	return d.path
}

// Lookup returns the raw translation of word. Words match case
// insensitively. A word without an entry, or whose translation is NULL or
// blank, is reported as absent.
func (d *Dictionary) Lookup(ctx context.Context, word string) (string, bool, error) {
	var translation sql.NullString
	err := d.db.QueryRowContext(ctx, lookupQuery, word).Scan(&translation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up %q: %w", word, err)
	}
	// A blank translation is reported as absent so the word itself is
	// written rather than an empty cell.
	if !translation.Valid || strings.TrimSpace(translation.String) == "" {
		return "", false, nil
	}
	return translation.String, true, nil
}

// Close closes the database.
func (d *Dictionary) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("closing dictionary: %w", err)
	}
	return nil
}
