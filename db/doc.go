// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes the remote document table in Postgres:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateLocalSchema does the same for the SQLite fallback file. Both are
safe to call multiple times - they use IF NOT EXISTS.

# Tables

  - document (Postgres): key TEXT primary key, body JSONB object,
    updated_at. Keys are paths such as bales/<profile> and
    archive/bales/<profile>/<bale id>; a text_pattern_ops index serves
    prefix listing.
  - local_value (SQLite): namespace TEXT primary key, value TEXT holding
    JSON, saved_at.
*/
package db
