// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package live pushes bale updates to read-only scoreboard viewers over
// WebSockets. Viewers connect to /live/{slug}; every score change on that
// bale is sent as {"type":"bale_update","payload":...}. Viewers that fall
// behind are disconnected rather than slowing the scorer down.
package live
