// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid score input")
	ErrStaleInput     = errors.New("input no longer applies to the open end")
	ErrArcherNotFound = errors.New("archer not found")
	ErrNoArchers      = errors.New("a bale needs at least one archer")
	ErrInvalidSetup   = errors.New("invalid archer setup")
	ErrInvalidEnd     = errors.New("end out of range")
	ErrInvalidView    = errors.New("unknown view")
	ErrNoBale         = errors.New("no active bale")
)
