// Package chart renders the cumulative distance and time lines for one year.
package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mattwhite/yearposter/internal/poster"
	"github.com/mattwhite/yearposter/internal/summary"
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Format selects the output encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Options control the rendered chart.
type Options struct {
	Year   int
	Unit   string
	Width  int
	Height int
	Format Format
	Colors poster.Palette
}

// Cumulative draws the month-by-month running totals of distance (left
// axis) and moving time in hours (right axis).
func Cumulative(w io.Writer, stats summary.YearStats, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	ticks := make([]gochart.Tick, 12)
	for i := range ticks {
		ticks[i] = gochart.Tick{Value: float64(i + 1), Label: monthLabels[i]}
	}
	axisStyle := gochart.Style{FontColor: toDrawing(opts.Colors.Text), StrokeColor: toDrawing(opts.Colors.Dim)}
	nameStyle := gochart.Style{FontColor: toDrawing(opts.Colors.Text)}

	distance, hours := series(stats, opts.Colors)

	ch := gochart.Chart{
		Title:  fmt.Sprintf("%d cumulative distance and time", opts.Year),
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
			FillColor: toDrawing(opts.Colors.Background),
		},
		Canvas: gochart.Style{FillColor: toDrawing(opts.Colors.Background)},
		TitleStyle: gochart.Style{
			FontColor: toDrawing(opts.Colors.Text),
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Style: axisStyle,
		},
		YAxis: gochart.YAxis{
			Name:      opts.Unit,
			Range:     &gochart.ContinuousRange{Min: 0, Max: yMax(last(distance.YValues))},
			Style:     axisStyle,
			NameStyle: nameStyle,
		},
		YAxisSecondary: gochart.YAxis{
			Name:      "hours",
			Range:     &gochart.ContinuousRange{Min: 0, Max: yMax(last(hours.YValues))},
			Style:     axisStyle,
			NameStyle: nameStyle,
		},
		Series: []gochart.Series{distance, hours},
	}

	provider := gochart.SVG
	if opts.Format == PNG {
		provider = gochart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// series builds the filled distance line and the dashed hours line, one
// point per month.
func series(stats summary.YearStats, colors poster.Palette) (distance, hours gochart.ContinuousSeries) {
	xs := make([]float64, 12)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	cum := stats.Cumulative()
	cumTime := stats.CumulativeTime()
	hrs := make([]float64, 12)
	for i, secs := range cumTime {
		hrs[i] = secs / 3600
	}

	line := toDrawing(colors.Track)
	distance = gochart.ContinuousSeries{
		Name:    "distance",
		XValues: xs,
		YValues: cum[:],
		Style: gochart.Style{
			StrokeColor: line,
			StrokeWidth: 2,
			FillColor:   line.WithAlpha(64),
		},
	}
	hours = gochart.ContinuousSeries{
		Name:    "time",
		YAxis:   gochart.YAxisSecondary,
		XValues: xs,
		YValues: hrs,
		Style: gochart.Style{
			StrokeColor:     toDrawing(colors.Special),
			StrokeWidth:     2,
			StrokeDashArray: []float64{5, 5},
		},
	}
	return distance, hours
}

func last(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	return vs[len(vs)-1]
}

func yMax(total float64) float64 {
	if total <= 0 {
		return 1
	}
	return total * 1.1
}

func toDrawing(c poster.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
