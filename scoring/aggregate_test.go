// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bale-scorer/models"
)

func archerWith(ends map[int]models.End) models.Archer {
	a := models.Archer{ID: "a1", Name: "Robin", Target: "A", Scores: models.NewScorecard()}
	for n, e := range ends {
		a.Scores[n] = e
	}
	return a
}

func fullArcher(tok string) models.Archer {
	ends := map[int]models.End{}
	for n := 1; n <= models.TotalEnds; n++ {
		ends[n] = models.End{tok, tok, tok}
	}
	return archerWith(ends)
}

func TestEndTotal(t *testing.T) {
	assert.Equal(t, 29, EndTotal(models.End{"X", "10", "9"}))
	assert.Equal(t, 27, EndTotal(models.End{"10", "9", "8"}))
	assert.Equal(t, 7, EndTotal(models.End{"7", "", ""}))
	assert.Equal(t, 0, EndTotal(models.End{}))
	assert.Equal(t, 10, EndTotal(models.End{"M", "abc", "x"}))
}

func TestTensAndXs_DoubleCount(t *testing.T) {
	tens, xs := TensAndXs(models.End{"X", "10", "9"})
	assert.Equal(t, 2, tens)
	assert.Equal(t, 1, xs)

	tens, xs = TensAndXs(models.End{"10", "9", "8"})
	assert.Equal(t, 1, tens)
	assert.Equal(t, 0, xs)

	tens, xs = TensAndXs(models.End{"x", "X", ""})
	assert.Equal(t, 2, tens)
	assert.Equal(t, 2, xs)
}

func TestEndAverage(t *testing.T) {
	tests := []struct {
		name string
		end  models.End
		want float64
	}{
		{"ten nine eight", models.End{"10", "9", "8"}, 9.0},
		{"nothing shot", models.End{}, 0},
		{"one arrow", models.End{"7", "", ""}, 7.0},
		{"two arrows", models.End{"9", "8", ""}, 8.5},
		{"repeating", models.End{"10", "10", "9"}, 9.7},
		{"miss counts as shot", models.End{"M", "9", ""}, 4.5},
		{"rounds to one decimal", models.End{"9", "9", "8"}, 8.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndAverage(tt.end)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRound1_HalfAwayFromZero(t *testing.T) {
	assert.InDelta(t, 8.3, round1(8.25), 1e-9)
	assert.InDelta(t, 0.3, round1(0.25), 1e-9)
	assert.InDelta(t, -0.3, round1(-0.25), 1e-9)
}

func TestEndScenario(t *testing.T) {
	e := models.End{"10", "9", "8"}
	tens, xs := TensAndXs(e)

	assert.Equal(t, 27, EndTotal(e))
	assert.Equal(t, 1, tens)
	assert.Equal(t, 0, xs)
	assert.InDelta(t, 9.0, EndAverage(e), 1e-9)
	assert.True(t, EndComplete(e))
}

func TestRunningTotal_Monotonic(t *testing.T) {
	a := archerWith(map[int]models.End{
		1: {"X", "9", "M"},
		2: {"7", "", ""},
		4: {"10", "10", "10"},
		7: {"abc", "1", "2"},
	})

	for n := 0; n < models.TotalEnds; n++ {
		assert.LessOrEqual(t, RunningTotal(a, n), RunningTotal(a, n+1), "through end %d", n)
	}
	assert.Equal(t, 19, RunningTotal(a, 1))
	assert.Equal(t, 26, RunningTotal(a, 3))
	assert.Equal(t, 59, RunningTotal(a, models.TotalEnds))
	assert.Equal(t, 59, RunningTotal(a, 99))
}

func TestAggregates_Idempotent(t *testing.T) {
	a := archerWith(map[int]models.End{
		1: {"X", "10", "9"},
		2: {"8", "M", ""},
	})

	first := Summarize(a)
	second := Summarize(a)
	require.Equal(t, first, second)
	assert.Equal(t, OverallTotals(a), OverallTotals(a))
	assert.Equal(t, RunningTotal(a, 2), RunningTotal(a, 2))
}

func TestOverallTotals_AllX(t *testing.T) {
	a := fullArcher("X")
	totals := OverallTotals(a)

	assert.Equal(t, 360, totals.TotalScore)
	assert.Equal(t, 36, totals.TotalArrows)
	assert.Equal(t, 36, totals.Tens)
	assert.Equal(t, 36, totals.Xs)
	assert.InDelta(t, 10.0, totals.Average, 1e-9)
	assert.InDelta(t, 100.0, totals.Percentage, 1e-9)
	assert.True(t, ArcherComplete(a))
}

func TestOverallTotals_NothingShot(t *testing.T) {
	totals := OverallTotals(archerWith(nil))
	assert.Equal(t, Totals{}, totals)
}

func TestOverallTotals_Mixed(t *testing.T) {
	a := archerWith(map[int]models.End{
		1: {"X", "10", "9"},
		2: {"8", "M", "10"},
	})
	totals := OverallTotals(a)

	assert.Equal(t, 47, totals.TotalScore)
	assert.Equal(t, 6, totals.TotalArrows)
	assert.Equal(t, 3, totals.Tens)
	assert.Equal(t, 1, totals.Xs)
	assert.InDelta(t, 7.8, totals.Average, 1e-9)
	assert.InDelta(t, 50.0, totals.Percentage, 1e-9)
	assert.False(t, ArcherComplete(a))
}

func TestBaleComplete(t *testing.T) {
	assert.False(t, BaleComplete(models.Bale{}))

	done := fullArcher("9")
	partial := fullArcher("9")
	partial.Scores[12] = models.End{"9", "9", ""}

	assert.True(t, BaleComplete(models.Bale{Archers: []models.Archer{done}}))
	assert.False(t, BaleComplete(models.Bale{Archers: []models.Archer{done, partial}}))
}

func TestSummarize(t *testing.T) {
	a := archerWith(map[int]models.End{
		1: {"X", "10", "9"},
		2: {"7", "", ""},
	})
	ends := Summarize(a)

	require.Len(t, ends, models.TotalEnds)
	assert.Equal(t, 1, ends[0].End)
	assert.Equal(t, 29, ends[0].EndTotal)
	assert.Equal(t, 29, ends[0].RunningTotal)
	assert.Equal(t, [models.ArrowsPerEnd]Tier{TierGold, TierGold, TierGold}, ends[0].Tiers)
	assert.True(t, ends[0].Complete)

	assert.Equal(t, 36, ends[1].RunningTotal)
	assert.Equal(t, TierEmpty, ends[1].Tiers[2])
	assert.False(t, ends[1].Complete)

	assert.Equal(t, 36, ends[11].RunningTotal)
}
