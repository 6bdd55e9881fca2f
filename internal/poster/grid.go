package poster

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mattwhite/yearposter/internal/activity"
)

const (
	gridCols = 12 // months
	gridRows = 31 // days of month
)

// DayDistances holds display-unit distance by [month-1][day-1].
type DayDistances [gridCols][gridRows]float64

// Converter maps raw meters to display units.
type Converter interface {
	M2U(meters float64) float64
}

// GroupByDay sums each activity's converted distance onto its local month
// and day. Year is not checked here; callers filter first.
func GroupByDay(acts []activity.Activity, conv Converter) DayDistances {
	var days DayDistances
	for _, a := range acts {
		days[a.StartLocal.Month()-1][a.StartLocal.Day()-1] += conv.M2U(a.Length)
	}
	return days
}

// Get returns the distance for a 1-based month and day.
func (d *DayDistances) Get(month, day int) float64 {
	if month < 1 || month > gridCols || day < 1 || day > gridRows {
		return 0
	}
	return d[month-1][day-1]
}

// ValidDate reports whether year-month-day exists on the calendar.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return int(t.Month()) == month && t.Day() == day
}

// DotColor picks the fill for a day: dim when idle, special at or above the
// special distance, otherwise a blend from dim toward the track color.
func DotColor(dist, special float64, p Palette) Color {
	switch {
	case dist <= 0:
		return p.Dim
	case dist >= special:
		return p.Special
	}
	return Interpolate(p.Dim, p.Track, math.Min(dist/special, 1.0))
}

// Tooltip is the hover title of a dot.
func Tooltip(year, month, day int, dist float64, unit string) string {
	title := fmt.Sprintf("%d-%02d-%02d", year, month, day)
	if dist > 0 {
		title += fmt.Sprintf(": %s %s", formatDistance(dist), unit)
	}
	return title
}

func formatDistance(dist float64) string {
	if dist >= 1 {
		return strconv.Itoa(int(dist))
	}
	return strconv.FormatFloat(dist, 'f', 1, 64)
}

// Grid is the geometry of the month-by-day dot grid inside a region.
type Grid struct {
	Origin   XY
	SpacingX float64
	SpacingY float64
	Radius   float64
}

// NewGrid lays 12 columns and 31 rows over the region. Dots fill three
// quarters of half the tighter spacing.
func NewGrid(origin, size XY) Grid {
	sx := size.X / gridCols
	sy := size.Y / gridRows
	return Grid{
		Origin:   origin,
		SpacingX: sx,
		SpacingY: sy,
		Radius:   math.Min(sx, sy) / 2 * 0.75,
	}
}

// Center is the midpoint of the cell for a 1-based month and day.
func (g Grid) Center(month, day int) XY {
	return XY{
		X: g.Origin.X + float64(month-1)*g.SpacingX + g.SpacingX/2,
		Y: g.Origin.Y + float64(day-1)*g.SpacingY + g.SpacingY/2,
	}
}

// DrawMonthlyGrid draws one dot per calendar date of year inside the
// region. Dates that do not exist, such as February 30, are skipped.
func DrawMonthlyGrid(s Surface, acts []activity.Activity, year int, origin, size XY, host Host) {
	days := GroupByDay(acts, host)
	grid := NewGrid(origin, size)
	palette := host.Palette()
	special := host.SpecialDistance()
	unit := host.UnitLabel()

	for month := 1; month <= gridCols; month++ {
		for day := 1; day <= gridRows; day++ {
			if !ValidDate(year, month, day) {
				continue
			}
			dist := days.Get(month, day)
			s.Circle(grid.Center(month, day), grid.Radius, DotColor(dist, special, palette), Tooltip(year, month, day, dist, unit))
		}
	}
}
