// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Bale: bale number, archers, current end pointer, total ends (always 12)
  - Archer: name, target, classification and a Scorecard
  - Scorecard: end number (1..12) to End
  - End: three arrow tokens, "" for an arrow not yet shot
  - AppState: the view a client was on, for restore
  - Profile: a saved archer identity

End decodes both the canonical ["X","9",""] triple and the older
{"arrow1":"X","arrow2":"9"} object; it always encodes as the triple.
Bale.Normalize repairs documents missing the end count or score maps.

# Request Types

  - StartBaleRequest: bale_number, archers (name, target, classification)
  - FocusRequest: archer_id, arrow
  - KeypadEntryRequest: epoch, token
  - SetScoreRequest: archer_id, end, arrow, token
  - ChangeEndRequest: end
  - SaveAppStateRequest: view, archer_id
  - CreateProfileRequest: name, classification, default_target

# Response Types

  - StartBaleResponse: bale and view slug
  - FocusState: keypad focus and its epoch
  - RestoreResponse: view, archer and bale to reopen
  - ErrorResponse: standard error format
*/
package models
