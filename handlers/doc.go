// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Bale Scorer API.

# Handler Types

  - BaleHandler: bale setup, keypad entry, end changes, scorecards and exports
  - ProfileHandler: saved archer profiles
  - LiveHandler: read-only WebSocket view of a bale

Every BaleHandler route is scoped by the X-Profile-ID header. The header is
opaque; it only has to pass auth.ValidateProfileKey.

# Scoring Flow

	POST /bales                → StartBale (archives the previous bale)
	POST /bale/keypad/focus    → Focus (returns the focus epoch)
	POST /bale/keypad/enter    → Enter (epoch + token, advances focus)
	POST /bale/end             → ChangeEnd (closes the keypad)
	PUT  /bale/scores          → SetScore (current end only)

An entry carries the epoch it was focused under. Closing the keypad or
changing the end bumps the epoch, so a late entry is answered with 409 and
leaves the bale unchanged.

# Error Mapping

	400  invalid token, bad setup, end out of range, unknown view, bad profile key
	404  no bale for the profile, unknown archer, unknown live slug
	409  stale keypad input or an edit outside the current end
	501  profile listing on a store that cannot list

Storage failures are not errors here. The persister falls back to the
local store and logs; the response reflects the in-memory bale.
*/
package handlers
