// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and identity checks.

There is no login flow. The client selects a profile and sends its key in
the X-Profile-ID header; the server treats the key as opaque and only
checks that it is safe to embed in a store key.

# IDs

Bales, archers and profiles get random UUIDv4 identifiers:

	id, err := auth.GenerateID()

# Profile Keys

	if err := auth.ValidateProfileKey(key); err != nil {
		// 400
	}

Keys are 1 to 128 characters of letters, digits and "-_.@". Anything that
could split a store key (slashes) or act as a pattern (glob
characters) is refused.

# View Slugs

Each bale gets a short slug for its read-only live scoreboard:

	slug := auth.GenerateViewSlug(profile, baleID, salt)

The slug is an HMAC-SHA256 of profile and bale ID, truncated to 64 bits and
base62 encoded. It is deterministic, so restarting the server yields the
same link for the same bale, and it reveals neither the profile nor the
bale ID.
*/
package auth
