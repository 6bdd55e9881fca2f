// Package activity holds the activity records a poster is drawn from and
// the loaders that read them out of running_page data files.
package activity

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Activity is one completed activity. StartLocal carries the local wall
// clock in the UTC location; Start and End are absolute and may be zero.
type Activity struct {
	ID         int64
	Name       string
	Type       string
	Location   string
	StartLocal time.Time
	Start      time.Time
	End        time.Time
	Length     float64 // meters
	Moving     MovingTime
}

// Date returns the local calendar date of the start as midnight UTC.
func (a Activity) Date() time.Time {
	y, m, d := a.StartLocal.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type movingKind uint8

const (
	movingAbsent movingKind = iota
	movingDuration
	movingSeconds
	movingMalformed
)

// MovingTime is the optional moving-time field of a record. It is either a
// duration, a raw number of seconds, absent, or present but unreadable.
type MovingTime struct {
	kind     movingKind
	duration time.Duration
	seconds  float64
}

func MovingDuration(d time.Duration) MovingTime {
	return MovingTime{kind: movingDuration, duration: d}
}

func MovingSeconds(s float64) MovingTime {
	return MovingTime{kind: movingSeconds, seconds: s}
}

// MalformedMovingTime marks a moving time that was present but could not be read.
func MalformedMovingTime() MovingTime {
	return MovingTime{kind: movingMalformed}
}

// Present reports whether the record carried a moving-time field at all.
func (m MovingTime) Present() bool { return m.kind != movingAbsent }

// Seconds returns the moving time in seconds. ok is false when absent or malformed.
func (m MovingTime) Seconds() (float64, bool) {
	switch m.kind {
	case movingDuration:
		return m.duration.Seconds(), true
	case movingSeconds:
		return m.seconds, true
	}
	return 0, false
}

// UnmarshalJSON accepts null, a number of seconds, or a timedelta string.
// Anything else decodes as malformed instead of failing the whole file.
func (m *MovingTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*m = MovingTime{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = MalformedMovingTime()
			return nil
		}
		*m = ParseMovingTime(s)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*m = MovingSeconds(f)
		return nil
	}
	*m = MalformedMovingTime()
	return nil
}

var epoch = time.Unix(0, 0).UTC()

// ParseMovingTime reads the moving-time text forms running_page produces:
// "H:MM:SS[.ffffff]", "N day(s), H:MM:SS" and the SQLite interval storage
// "1970-01-01 HH:MM:SS[.ffffff]". Empty text is treated as absent.
func ParseMovingTime(s string) MovingTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return MovingTime{}
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return MovingDuration(t.Sub(epoch))
		}
	}

	var days int
	if i := strings.Index(s, ","); i >= 0 {
		head := strings.Fields(s[:i])
		if len(head) != 2 || (head[1] != "day" && head[1] != "days") {
			return MalformedMovingTime()
		}
		n, err := strconv.Atoi(head[0])
		if err != nil {
			return MalformedMovingTime()
		}
		days = n
		s = strings.TrimSpace(s[i+1:])
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return MalformedMovingTime()
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return MalformedMovingTime()
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 || mins > 59 {
		return MalformedMovingTime()
	}
	secs, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return MalformedMovingTime()
	}
	total := float64(days*86400+h*3600+mins*60) + secs
	return MovingDuration(time.Duration(total * float64(time.Second)))
}

// FilterYear keeps the records whose local start falls in year.
func FilterYear(acts []Activity, year int) []Activity {
	out := make([]Activity, 0, len(acts))
	for _, a := range acts {
		if a.StartLocal.Year() == year {
			out = append(out, a)
		}
	}
	return out
}

// FilterTypes keeps records whose type matches one of types. No types keeps all.
func FilterTypes(acts []Activity, types ...string) []Activity {
	if len(types) == 0 {
		return acts
	}
	out := make([]Activity, 0, len(acts))
	for _, a := range acts {
		for _, t := range types {
			if strings.EqualFold(a.Type, strings.TrimSpace(t)) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// Years lists the distinct local start years, newest first.
func Years(acts []Activity) []int {
	seen := make(map[int]bool)
	var years []int
	for _, a := range acts {
		y := a.StartLocal.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00", // Python's str() of an aware datetime
	time.RFC3339,
}

// parseTimestamp reads the "YYYY-MM-DD HH:MM:SS" form running_page writes,
// with or without a UTC offset, falling back to RFC 3339. Wall-clock values
// without an offset land in UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var first error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if first == nil {
			first = err
		}
	}
	return time.Time{}, first
}
