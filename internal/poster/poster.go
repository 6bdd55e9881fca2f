// Package poster draws the year summary: a grid with one dot per calendar
// day, columns for months and rows for days of the month.
package poster

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattwhite/yearposter/internal/activity"
	"github.com/mattwhite/yearposter/internal/summary"
)

// YearSummary draws the dot grid for a single year.
type YearSummary struct {
	Year int
	Host Host
}

// Draw filters tracks to the year, computes the statistics and draws the
// grid inside the region with a small inset. The statistics are returned
// for the caller; the grid does not use them.
func (y YearSummary) Draw(s Surface, tracks []activity.Activity, size, offset XY) summary.YearStats {
	yearTracks := activity.FilterYear(tracks, y.Year)
	stats := summary.Calculate(yearTracks, y.Host)

	DrawMonthlyGrid(s, yearTracks, y.Year,
		XY{offset.X + 6, offset.Y + 8},
		XY{size.X - 12, size.Y - 16},
		y.Host)
	return stats
}

// Poster is the page the year summary is placed on.
type Poster struct {
	Title  string
	Size   XY
	Host   Host
	Tracks []activity.Activity
}

// DefaultSize matches the 200x300 portrait page of the track posters.
var DefaultSize = XY{200, 300}

const (
	headerHeight = 30
	footerHeight = 30
	margin       = 10
)

// CheckSize reports whether size leaves room for the grid between the
// margins, header and footer.
func CheckSize(size XY) error {
	if size.X <= 2*margin || size.Y <= headerHeight+footerHeight {
		return fmt.Errorf("poster size %vx%v is too small (need more than %vx%v)",
			size.X, size.Y, 2*margin, headerHeight+footerHeight)
	}
	return nil
}

// Render draws the page with drawer in the middle and writes it as SVG.
func (p Poster) Render(w io.Writer, drawer YearSummary) (summary.YearStats, error) {
	size := p.Size
	if err := CheckSize(size); err != nil {
		return summary.YearStats{}, err
	}
	palette := p.Host.Palette()

	svg := NewSVG(size)
	svg.Rect(XY{}, size, palette.Background)

	title := p.Title
	if title == "" {
		title = "Running"
	}
	svg.Text(XY{margin, 20}, title, 12, palette.Text, AnchorStart)
	svg.Text(XY{size.X - margin, 20}, fmt.Sprint(drawer.Year), 12, palette.Text, AnchorEnd)

	region := XY{size.X - 2*margin, size.Y - headerHeight - footerHeight}
	stats := drawer.Draw(svg, p.Tracks, region, XY{margin, headerHeight})

	p.drawFooter(svg, stats, palette)

	if _, err := svg.WriteTo(w); err != nil {
		return stats, fmt.Errorf("failed to write svg: %w", err)
	}
	return stats, nil
}

func (p Poster) drawFooter(svg Surface, stats summary.YearStats, palette Palette) {
	unit := p.Host.UnitLabel()
	y := p.Size.Y - footerHeight + 12

	cells := []struct{ label, value string }{
		{"RUNS", fmt.Sprint(stats.TotalRuns)},
		{"DISTANCE", fmt.Sprintf("%.1f %s", stats.TotalDistance, unit)},
		{"PACE", stats.AvgPace + "/" + unit},
		{"STREAK", fmt.Sprintf("%d d", stats.Streak)},
		{"LONGEST", fmt.Sprintf("%.1f %s", stats.LongestRun, unit)},
	}
	width := (p.Size.X - 2*margin) / float64(len(cells))
	for i, c := range cells {
		x := margin + width*float64(i) + width/2
		svg.Text(XY{x, y}, c.label, 3.5, palette.Text, AnchorMiddle)
		svg.Text(XY{x, y + 7}, c.value, 5, palette.Text, AnchorMiddle)
	}

	var races []string
	if stats.MarathonCount > 0 {
		races = append(races, fmt.Sprintf("%d× marathon", stats.MarathonCount))
	}
	if stats.HalfMarathonCount > 0 {
		races = append(races, fmt.Sprintf("%d× half", stats.HalfMarathonCount))
	}
	if stats.TenKCount > 0 {
		races = append(races, fmt.Sprintf("%d× 10K+", stats.TenKCount))
	}
	if len(races) > 0 {
		svg.Text(XY{p.Size.X / 2, y + 14}, strings.Join(races, " · "), 3.5, palette.Track, AnchorMiddle)
	}
}
