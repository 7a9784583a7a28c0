// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"strconv"
	"strings"
)

const (
	MinPoints = 0
	MaxPoints = 10
)

const (
	TokenX    = "X"
	TokenMiss = "M"
)

// Tier is the display class of a token.
type Tier string

const (
	TierGold  Tier = "gold"
	TierRed   Tier = "red"
	TierBlue  Tier = "blue"
	TierBlack Tier = "black"
	TierWhite Tier = "white"
	TierMiss  Tier = "miss"
	TierEmpty Tier = "empty"
)

func clean(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// numeral parses an integer token in [MinPoints, MaxPoints]
func numeral(t string) (int, bool) {
	n, err := strconv.Atoi(t)
	if err != nil || n < MinPoints || n > MaxPoints {
		return 0, false
	}
	return n, true
}

// ParseScoreValue returns the point value of a token. Anything that is not
// a valid token is worth 0; it never fails.
func ParseScoreValue(token string) int {
	t := clean(token)
	switch t {
	case TokenX:
		return MaxPoints
	case TokenMiss, "":
		return 0
	}
	n, _ := numeral(t)
	return n
}

// IsValidScoreInput reports whether token may be committed to a slot.
// The empty string is valid and means the arrow is unshot.
func IsValidScoreInput(token string) bool {
	t := clean(token)
	switch t {
	case "", TokenX, TokenMiss:
		return true
	}
	_, ok := numeral(t)
	return ok
}

// NormalizeToken returns the canonical stored form of an entered token.
// Invalid input becomes "". With collapseTens a "10" is stored as "X",
// which loses the difference between the two.
func NormalizeToken(token string, collapseTens bool) string {
	t := clean(token)
	switch t {
	case "", TokenX, TokenMiss:
		return t
	}
	n, ok := numeral(t)
	if !ok {
		return ""
	}
	if n == MaxPoints && collapseTens {
		return TokenX
	}
	return strconv.Itoa(n)
}

// FormatScore renders a point value as a token.
func FormatScore(points int, collapseTens bool) string {
	switch {
	case points < MinPoints || points > MaxPoints:
		return ""
	case points == 0:
		return TokenMiss
	case points == MaxPoints && collapseTens:
		return TokenX
	}
	return strconv.Itoa(points)
}

// IsX reports whether the token is an X (inner ten).
func IsX(token string) bool {
	return clean(token) == TokenX
}

// IsShot reports whether an arrow has been recorded in the slot.
func IsShot(token string) bool {
	return strings.TrimSpace(token) != ""
}

// ColorClass maps a token to its display tier. The tier always follows
// ParseScoreValue, so unparseable non-empty input lands in TierMiss.
func ColorClass(token string) Tier {
	if !IsShot(token) {
		return TierEmpty
	}
	switch ParseScoreValue(token) {
	case 10, 9:
		return TierGold
	case 8, 7:
		return TierRed
	case 6, 5:
		return TierBlue
	case 4, 3:
		return TierBlack
	case 2, 1:
		return TierWhite
	default:
		return TierMiss
	}
}
