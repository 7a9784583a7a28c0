// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates the document table in the remote Postgres store.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// CreateLocalSchema creates the fallback table in the local SQLite file.
func CreateLocalSchema(db *sql.DB) error {
	_, err := db.Exec(localSchema)
	if err != nil {
		return fmt.Errorf("failed to create local schema: %w", err)
	}

	return nil
}

// DropSchema removes the document table. Tests only.
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`DROP TABLE IF EXISTS document CASCADE;`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

const schema = `
-- Documents: one JSON object per key (bales/<profile>, app_state/<profile>, profiles/<id>, archive/...)
CREATE TABLE IF NOT EXISTS document (
    key TEXT PRIMARY KEY,
    body JSONB NOT NULL CHECK (jsonb_typeof(body) = 'object'),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_document_key_prefix ON document(key text_pattern_ops);
CREATE INDEX IF NOT EXISTS idx_document_updated_at ON document(updated_at);
`

const localSchema = `
CREATE TABLE IF NOT EXISTS local_value (
    namespace TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    saved_at TIMESTAMP NOT NULL
);
`
