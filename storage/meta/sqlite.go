// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package meta

import (
	"database/sql"

	"github.com/juju/errors"
	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Init() error {
	// Create tables
	if _, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS key_values (
	key TEXT PRIMARY KEY,
	value TEXT
);`); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (s *SQLite) Put(key, value string) error {
	_, err := s.db.Exec(`
INSERT INTO key_values (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, key, value)
	return errors.Trace(err)
}

func (s *SQLite) Get(key string) (*string, error) {
	var value string
	err := s.db.QueryRow(`
SELECT value FROM key_values WHERE key = ?
`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // key not found
		}
		return nil, errors.Trace(err) // other error
	}
	return &value, nil // key found
}
