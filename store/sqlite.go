// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/bale-scorer/db"
)

// LocalFileName is the SQLite file created inside the local directory.
const LocalFileName = "bale-scorer-local.db"

// SQLiteStore is the on-device fallback store.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the fallback database in dir.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local directory: %w", err)
	}
	path := filepath.Join(dir, LocalFileName)

	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// single writer keeps SQLite out of lock contention
	conn.SetMaxOpenConns(1)

	if err := db.CreateLocalSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLiteStore{db: conn, path: path}, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(namespace string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", namespace, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO local_value (namespace, value, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (namespace) DO UPDATE
		SET value = excluded.value, saved_at = excluded.saved_at
	`, namespace, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", namespace, err)
	}
	return nil
}

func (s *SQLiteStore) Load(namespace string, into any) (bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT value FROM local_value WHERE namespace = ?`, namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", namespace, err)
	}

	if err := json.Unmarshal([]byte(data), into); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", namespace, err)
	}
	return true, nil
}

func (s *SQLiteStore) Clear(namespace string) error {
	if _, err := s.db.Exec(`DELETE FROM local_value WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to clear %s: %w", namespace, err)
	}
	return nil
}
