// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"

	"github.com/danielhkuo/bale-scorer/models"
)

// Totals are the card-level aggregates for one archer.
type Totals struct {
	TotalScore  int     `json:"total_score"`
	TotalArrows int     `json:"total_arrows"`
	Tens        int     `json:"tens"`
	Xs          int     `json:"xs"`
	Average     float64 `json:"average"`
	Percentage  float64 `json:"percentage"`
}

// EndSummary is everything a display needs for one end of one archer.
type EndSummary struct {
	End          int                       `json:"end"`
	Arrows       models.End                `json:"arrows"`
	Tiers        [models.ArrowsPerEnd]Tier `json:"tiers"`
	EndTotal     int                       `json:"end_total"`
	RunningTotal int                       `json:"running_total"`
	Average      float64                   `json:"average"`
	Tens         int                       `json:"tens"`
	Xs           int                       `json:"xs"`
	Complete     bool                      `json:"complete"`
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func EndTotal(e models.End) int {
	total := 0
	for _, tok := range e {
		total += ParseScoreValue(tok)
	}
	return total
}

// ArrowsShot counts the non-empty slots of an end.
func ArrowsShot(e models.End) int {
	n := 0
	for _, tok := range e {
		if IsShot(tok) {
			n++
		}
	}
	return n
}

func EndComplete(e models.End) bool {
	return ArrowsShot(e) == models.ArrowsPerEnd
}

// EndAverage is the mean of the shot arrows, 0 when none are shot.
func EndAverage(e models.End) float64 {
	shot := ArrowsShot(e)
	if shot == 0 {
		return 0
	}
	return round1(float64(EndTotal(e)) / float64(shot))
}

// TensAndXs counts ten-point arrows. An X counts toward both tens and Xs;
// a "10" counts toward tens only.
func TensAndXs(e models.End) (tens, xs int) {
	for _, tok := range e {
		if IsX(tok) {
			tens++
			xs++
			continue
		}
		if IsShot(tok) && ParseScoreValue(tok) == MaxPoints {
			tens++
		}
	}
	return tens, xs
}

// RunningTotal sums end totals for ends 1..throughEnd.
func RunningTotal(a models.Archer, throughEnd int) int {
	if throughEnd > models.TotalEnds {
		throughEnd = models.TotalEnds
	}
	total := 0
	for n := 1; n <= throughEnd; n++ {
		total += EndTotal(a.Scores.End(n))
	}
	return total
}

// OverallTotals folds every end of the card. Percentage is the share of
// arrows worth ten points; since tens already include every X, each such
// arrow is counted once.
func OverallTotals(a models.Archer) Totals {
	var t Totals
	for n := 1; n <= models.TotalEnds; n++ {
		e := a.Scores.End(n)
		t.TotalScore += EndTotal(e)
		t.TotalArrows += ArrowsShot(e)
		tens, xs := TensAndXs(e)
		t.Tens += tens
		t.Xs += xs
	}
	if t.TotalArrows > 0 {
		t.Average = round1(float64(t.TotalScore) / float64(t.TotalArrows))
		t.Percentage = round1(float64(t.Tens) / float64(t.TotalArrows) * 100)
	}
	return t
}

func ArcherComplete(a models.Archer) bool {
	for n := 1; n <= models.TotalEnds; n++ {
		if !EndComplete(a.Scores.End(n)) {
			return false
		}
	}
	return true
}

// BaleComplete reports whether every archer finished. An empty bale is
// never complete.
func BaleComplete(b models.Bale) bool {
	if len(b.Archers) == 0 {
		return false
	}
	for _, a := range b.Archers {
		if !ArcherComplete(a) {
			return false
		}
	}
	return true
}

// Summarize returns one EndSummary per end, in end order.
func Summarize(a models.Archer) []EndSummary {
	out := make([]EndSummary, 0, models.TotalEnds)
	running := 0
	for n := 1; n <= models.TotalEnds; n++ {
		e := a.Scores.End(n)
		total := EndTotal(e)
		running += total
		tens, xs := TensAndXs(e)

		s := EndSummary{
			End:          n,
			Arrows:       e,
			EndTotal:     total,
			RunningTotal: running,
			Average:      EndAverage(e),
			Tens:         tens,
			Xs:           xs,
			Complete:     EndComplete(e),
		}
		for i, tok := range e {
			s.Tiers[i] = ColorClass(tok)
		}
		out = append(out, s)
	}
	return out
}
