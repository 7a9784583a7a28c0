// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session is the scoring controller: it owns the live bale for each
profile and the keypad that writes into it.

# Sessions

A Session holds one bale snapshot. Every mutation takes the session lock,
so entries are applied in the order they arrive, and each mutation hands a
copy of the bale to the async writer and the live hub. Nothing here waits on
the network.

# Keypad

FocusMachine decides which arrow slot owns the keypad. Only one slot is
ever focused. Focusing a slot returns an epoch; entries carry that epoch
back:

	st, _ := s.Focus(archerID, 1)
	st, err := s.Enter(st.Epoch, "X") // writes, moves to arrow 2

After each non-empty entry focus moves to the next arrow, then to arrow 1
of the next archer, and closes after the last archer. Changing the end or
closing the keypad starts a new epoch, so an entry that was in flight is
refused with ErrStaleInput instead of landing on the wrong end.

# Errors

	ErrInvalidInput    token outside X, M, 0-10 (nothing is written)
	ErrStaleInput      epoch expired, or the end is not the open one
	ErrArcherNotFound  unknown archer ID
	ErrNoArchers       setup without archers (existing session untouched)
	ErrInvalidSetup    blank name or duplicate archer
	ErrInvalidEnd      end outside 1-12
	ErrNoBale          the profile has no bale yet

# Manager

Manager maps profile keys to sessions. Start archives the previous bale,
retires its session so late requests against it get ErrStaleInput, and
builds a fresh one. Get restores a session from storage the first time a
profile is seen after a restart; BySlug does the same for live links.
*/
package session
