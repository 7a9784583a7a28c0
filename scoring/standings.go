// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"sort"

	"github.com/danielhkuo/bale-scorer/models"
)

// Standing is one archer's place on a bale.
type Standing struct {
	ArcherID string `json:"archer_id"`
	Name     string `json:"name"`
	Target   string `json:"target"`
	Totals   Totals `json:"totals"`
	Complete bool   `json:"complete"`
	Rank     int    `json:"rank"` // 1-indexed ranking
}

// ArcherCard is the scorecard view of one archer.
type ArcherCard struct {
	Archer   models.Archer `json:"archer"`
	Ends     []EndSummary  `json:"ends"`
	Totals   Totals        `json:"totals"`
	Complete bool          `json:"complete"`
}

// BaleView is a bale together with every derived aggregate.
type BaleView struct {
	Bale      models.Bale  `json:"bale"`
	Cards     []ArcherCard `json:"cards"`
	Standings []Standing   `json:"standings"`
	Complete  bool         `json:"complete"`
}

func Card(a models.Archer) ArcherCard {
	return ArcherCard{
		Archer:   a,
		Ends:     Summarize(a),
		Totals:   OverallTotals(a),
		Complete: ArcherComplete(a),
	}
}

func View(b models.Bale) BaleView {
	cards := make([]ArcherCard, len(b.Archers))
	for i, a := range b.Archers {
		cards[i] = Card(a)
	}
	return BaleView{
		Bale:      b,
		Cards:     cards,
		Standings: Standings(b),
		Complete:  BaleComplete(b),
	}
}

// Standings ranks the archers of a bale.
func Standings(b models.Bale) []Standing {
	stats := make([]Standing, len(b.Archers))
	for i, a := range b.Archers {
		stats[i] = Standing{
			ArcherID: a.ID,
			Name:     a.Name,
			Target:   a.Target,
			Totals:   OverallTotals(a),
			Complete: ArcherComplete(a),
		}
	}

	// Lexicographic order
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i].Totals, stats[j].Totals

		// 1. Higher score wins
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}

		// 2. More Xs
		if a.Xs != b.Xs {
			return a.Xs > b.Xs
		}

		// 3. More tens
		if a.Tens != b.Tens {
			return a.Tens > b.Tens
		}

		// 4. Same score on fewer arrows
		if a.TotalArrows != b.TotalArrows {
			return a.TotalArrows < b.TotalArrows
		}

		// 5. Stable tie-breaking by name, then ID
		if stats[i].Name != stats[j].Name {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].ArcherID < stats[j].ArcherID
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats
}
