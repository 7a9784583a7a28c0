// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the two persistence tiers a bale is written to.

# Remote

RemoteStore is the hosted document database. Documents are JSON objects
addressed by slash separated keys:

	bales/<profile>                   the active bale
	app_state/<profile>               the last view the scorer was on
	profiles/<id>                     archer profiles
	archive/bales/<profile>/<baleID>  bales closed out by balectl
	archive/profiles/<stamp>/<id>     profiles archived by balectl

Three backends are provided: PostgresStore (one JSONB row per key),
RedisStore (one hash per key) and MemoryRemote (tests and offline runs).
Backends that can enumerate or delete documents also implement Lister and
Deleter.

# Local

LocalStore is the on-device fallback. It is written synchronously whenever
a remote write fails so a scorer never loses arrows. SQLiteStore keeps
values in a single file under the configured local directory; MemoryLocal
is the in-process equivalent.
*/
package store
