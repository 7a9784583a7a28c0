// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/scoring"
)

var (
	colorBackground = drawing.ColorFromHex("ffffff")
	colorText       = drawing.ColorFromHex("1f2933")
	colorLine       = drawing.ColorFromHex("1d4ed8")
	colorGold       = drawing.ColorFromHex("f5c518")
	colorEndBar     = drawing.ColorFromHex("9ca3af")
)

// RunningTotalChart renders a PNG of the archer's running total through
// each shot end, with the per-end totals underneath.
func RunningTotalChart(a models.Archer) ([]byte, error) {
	summaries := scoring.Summarize(a)

	last := 0
	for _, s := range summaries {
		if scoring.ArrowsShot(s.Arrows) > 0 {
			last = s.End
		}
	}
	if last == 0 {
		return renderNoDataPlaceholder(fmt.Sprintf("No arrows scored for %s", a.Name))
	}

	xs := make([]float64, last)
	running := make([]float64, last)
	ends := make([]float64, last)
	for i := 0; i < last; i++ {
		xs[i] = float64(summaries[i].End)
		running[i] = float64(summaries[i].RunningTotal)
		ends[i] = float64(summaries[i].EndTotal)
	}

	// fixed axes so a single point or an all-miss card still has a range
	maxY := math.Max(30, math.Ceil(running[last-1]/30)*30)

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - running total", a.Name),
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: colorBackground,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: colorBackground,
		},
		XAxis: chart.XAxis{
			Name:           "End",
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
			Style:          chart.Style{FontColor: colorText},
			Range:          &chart.ContinuousRange{Min: 1, Max: models.TotalEnds},
			Ticks:          endTicks(),
		},
		YAxis: chart.YAxis{
			Name:           "Score",
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
			Style:          chart.Style{FontColor: colorText},
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "End total",
				XValues: xs,
				YValues: ends,
				Style: chart.Style{
					StrokeColor: colorEndBar,
					StrokeWidth: 1,
					DotWidth:    3,
					DotColor:    colorEndBar,
				},
			},
			chart.ContinuousSeries{
				Name:    "Running total",
				XValues: xs,
				YValues: running,
				Style: chart.Style{
					StrokeColor: colorLine,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    colorGold,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func endTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, models.TotalEnds)
	for n := 1; n <= models.TotalEnds; n++ {
		ticks = append(ticks, chart.Tick{Value: float64(n), Label: fmt.Sprintf("%d", n)})
	}
	return ticks
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: colorBackground,
		},
		Canvas: chart.Style{
			FillColor: colorBackground,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(colorText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
