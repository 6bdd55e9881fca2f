package units

import (
	"fmt"
	"strings"
)

// Unit is the display unit chosen by the user.
type Unit string

const (
	Metric   Unit = "metric"
	Imperial Unit = "imperial"
)

const metersPerMile = 1609.344

// Parse maps a config or flag value to a Unit. Empty means metric.
func Parse(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "km":
		return Metric, nil
	case "imperial", "mi", "miles":
		return Imperial, nil
	}
	return "", fmt.Errorf("unknown unit %q (want metric or imperial)", s)
}

// M2U converts meters to the display unit.
func (u Unit) M2U(meters float64) float64 {
	if u == Imperial {
		return meters / metersPerMile
	}
	return meters / 1000
}

// Label is the short unit name shown next to distances.
func (u Unit) Label() string {
	if u == Imperial {
		return "mi"
	}
	return "km"
}
