// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Bale Scorer API server.

Bale Scorer keeps score for one archery bale: a handful of archers shooting
twelve ends of three arrows. Scores are entered through a keypad flow,
totals and standings are derived on every read, and every change is
written to a remote document store with a local SQLite fallback so a
dropped connection never loses an arrow.

# Starting the Server

	VIEW_SLUG_SALT=... go run . -t postgres -d "postgres://..."

Or with a YAML file and a .env next to it:

	go run . -c bale-scorer.yaml

# Configuration

Required settings:

  - VIEW_SLUG_SALT (-slug-salt): Secret for live view slugs
  - DATABASE_URL (-d): when DATABASE_TYPE is postgres
  - REDIS_URL (-redis-url): when DATABASE_TYPE is redis

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): memory, postgres or redis (default: memory)
  - LOCAL_DIR (-local-dir): Directory of the SQLite fallback (default: .)
  - COLLAPSE_TENS_TO_X (-collapse-tens): Store an entered 10 as X
  - WRITE_RETRIES (-write-retries), WRITE_RATE (-write-rate): Remote write policy
  - ALLOWED_ORIGINS (-origins): CORS and WebSocket origins

# Architecture

  - scoring: Token parsing, aggregates and standings (pure functions)
  - session: Live bale per profile, keypad focus and end changes
  - persist: Remote-then-local write policy, restore, coalescing writer
  - store: Postgres, Redis and in-memory remote stores; SQLite local store
  - live: WebSocket hub for read-only viewers
  - report: XLSX scorecards and running total charts
  - handlers, router, middleware: HTTP surface
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

The cmd/balectl tool runs maintenance jobs against the same stores.
*/
package main
