// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/scoring"
)

const (
	SummarySheet = "Scorecard"
	ArrowSheet   = "Arrows"
)

// WriteScorecard writes the bale as an XLSX workbook: one summary row per
// archer in standings order, and one row per archer and end with every
// arrow.
func WriteScorecard(w io.Writer, bale models.Bale) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ArrowSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSummary(f, bale, bold); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeArrows(f, bale, bold); err != nil {
		return fmt.Errorf("failed to write arrow sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, bale models.Bale, bold int) error {
	header := []any{"Rank", "Target", "Name", "Class"}
	for n := 1; n <= models.TotalEnds; n++ {
		header = append(header, fmt.Sprintf("E%d", n))
	}
	header = append(header, "Total", "10s", "Xs", "Arrows", "Avg", "%", "Complete")

	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", last, bold); err != nil {
		return err
	}

	for i, st := range scoring.Standings(bale) {
		a := bale.Archer(st.ArcherID)
		if a == nil {
			continue
		}

		row := []any{st.Rank, a.Target, a.Name, a.Classification}
		for n := 1; n <= models.TotalEnds; n++ {
			row = append(row, scoring.EndTotal(a.Scores.End(n)))
		}
		t := st.Totals
		row = append(row, t.TotalScore, t.Tens, t.Xs, t.TotalArrows, t.Average, t.Percentage, st.Complete)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(SummarySheet, "C", "C", 24)
}

func writeArrows(f *excelize.File, bale models.Bale, bold int) error {
	header := []any{"Target", "Name", "End", "A1", "A2", "A3", "End", "Running"}
	if err := f.SetSheetRow(ArrowSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(ArrowSheet, "A1", "H1", bold); err != nil {
		return err
	}

	r := 2
	for _, a := range bale.Archers {
		for _, s := range scoring.Summarize(a) {
			row := []any{a.Target, a.Name, s.End, s.Arrows[0], s.Arrows[1], s.Arrows[2], s.EndTotal, s.RunningTotal}
			cell, err := excelize.CoordinatesToCellName(1, r)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(ArrowSheet, cell, &row); err != nil {
				return err
			}
			r++
		}
	}

	return f.SetColWidth(ArrowSheet, "B", "B", 24)
}
