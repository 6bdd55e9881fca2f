// Package summary aggregates a year of activities into the numbers shown
// next to the poster grid.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/mattwhite/yearposter/internal/activity"
)

// DefaultPace is reported when there is no distance or no time to divide.
const DefaultPace = `0'00"`

// Race-distance thresholds in kilometers, checked longest first.
const (
	marathonKm     = 42.0
	halfMarathonKm = 21.0
	tenKm          = 10.0
)

// Converter maps raw meters to the display unit.
type Converter interface {
	M2U(meters float64) float64
}

// YearStats is recomputed on every call and never stored.
type YearStats struct {
	TotalRuns         int
	TotalDistance     float64 // display units
	MarathonCount     int
	HalfMarathonCount int
	TenKCount         int
	AvgPace           string
	Streak            int     // longest run of consecutive active days
	TotalTime         float64 // seconds
	LongestRun        float64 // display units
	ActiveDays        int
	Months            [12]MonthTotal
}

// MonthTotal is the display-unit distance and moving seconds of one month.
type MonthTotal struct {
	Distance float64
	Seconds  float64
}

// Calculate scans the activities once. They should already be limited to
// the year being summarised.
func Calculate(acts []activity.Activity, conv Converter) YearStats {
	stats := YearStats{
		TotalRuns: len(acts),
		AvgPace:   DefaultPace,
	}
	if len(acts) == 0 {
		return stats
	}

	var totalMeters, totalSeconds, longestMeters float64
	for _, a := range acts {
		totalMeters += a.Length
		if a.Length > longestMeters {
			longestMeters = a.Length
		}

		km := a.Length / 1000
		switch {
		case km >= marathonKm:
			stats.MarathonCount++
		case km >= halfMarathonKm:
			stats.HalfMarathonCount++
		case km >= tenKm:
			stats.TenKCount++
		}

		secs := MovingSeconds(a)
		totalSeconds += secs

		month := &stats.Months[a.StartLocal.Month()-1]
		month.Distance += conv.M2U(a.Length)
		month.Seconds += secs
	}

	stats.TotalDistance = conv.M2U(totalMeters)
	stats.TotalTime = totalSeconds
	stats.LongestRun = conv.M2U(longestMeters)

	if totalMeters > 0 && totalSeconds > 0 {
		stats.AvgPace = FormatPace(totalSeconds / conv.M2U(totalMeters))
	}

	dates := distinctDates(acts)
	stats.ActiveDays = len(dates)
	stats.Streak = longestStreak(dates)

	return stats
}

// MovingSeconds is the time one record contributes: its explicit moving
// time when present, else end minus start, else zero.
func MovingSeconds(a activity.Activity) float64 {
	if a.Moving.Present() {
		secs, _ := a.Moving.Seconds()
		return secs
	}
	if !a.Start.IsZero() && !a.End.IsZero() {
		return a.End.Sub(a.Start).Seconds()
	}
	return 0
}

// FormatPace renders seconds per unit as M'SS".
func FormatPace(secondsPerUnit float64) string {
	if secondsPerUnit <= 0 {
		return DefaultPace
	}
	mins := int(secondsPerUnit / 60)
	secs := int(secondsPerUnit) % 60
	return fmt.Sprintf(`%d'%02d"`, mins, secs)
}

// Streak returns the longest run of consecutive local dates with activity.
func Streak(acts []activity.Activity) int {
	return longestStreak(distinctDates(acts))
}

func distinctDates(acts []activity.Activity) []time.Time {
	seen := make(map[time.Time]bool, len(acts))
	dates := make([]time.Time, 0, len(acts))
	for _, a := range acts {
		d := a.Date()
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// longestStreak expects sorted, distinct UTC midnights.
func longestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	longest := 1
	current := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// Cumulative returns the running total of monthly distance, January first.
func (s YearStats) Cumulative() [12]float64 {
	var out [12]float64
	var sum float64
	for i, m := range s.Months {
		sum += m.Distance
		out[i] = sum
	}
	return out
}

// CumulativeTime is the running total of moving seconds at the end of each month.
func (s YearStats) CumulativeTime() [12]float64 {
	var out [12]float64
	var sum float64
	for i, m := range s.Months {
		sum += m.Seconds
		out[i] = sum
	}
	return out
}

// TopRuns returns the n longest activities, longest first.
func TopRuns(acts []activity.Activity, n int) []activity.Activity {
	sorted := make([]activity.Activity, len(acts))
	copy(sorted, acts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Length > sorted[j].Length })
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatDuration renders seconds as "Xh Ym", or "Ym" under an hour.
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
