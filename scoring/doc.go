// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring implements the archery score model.

# Tokens

A token is what the scorer typed for one arrow: "X", "M", "0" through
"10", or "" for an arrow not yet shot.

	scoring.ParseScoreValue("X")   // 10
	scoring.ParseScoreValue("M")   // 0
	scoring.ParseScoreValue("abc") // 0, never an error
	scoring.IsValidScoreInput("11") // false

NormalizeToken gives the stored form of an entry. It keeps "10" and "X"
apart unless collapseTens is set, which reproduces the older behaviour of
turning every ten into an X on blur.

# Tiers

ColorClass maps a token to the ring colour used on the scorecard:

	gold   X 10 9
	red    8 7
	blue   6 5
	black  4 3
	white  2 1
	miss   M 0
	empty  unshot

# Aggregates

All aggregates are recomputed from tokens on every call:

	scoring.EndTotal(end)
	scoring.EndAverage(end)         // one decimal, 0 when nothing is shot
	scoring.TensAndXs(end)          // an X counts as a ten and as an X
	scoring.RunningTotal(archer, n) // ends 1..n
	scoring.OverallTotals(archer)

Percentage in Totals is the share of arrows worth ten points.

# Standings

Standings ranks the archers of a bale: total score, then Xs, then tens,
then fewer arrows for the same score, then name. Ranks are 1-indexed.
*/
package scoring
