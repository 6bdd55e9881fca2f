package poster

import (
	"fmt"
	"strings"

	"github.com/mattwhite/yearposter/internal/units"
)

// DefaultSpecialDistance is the display-unit distance at which a day is
// drawn in the special color.
const DefaultSpecialDistance = 10.0

var defaultColors = map[string]string{
	"text":       "#FFFFFF",
	"track":      "#4DD2FF",
	"special":    "#FFFF00",
	"background": "#222222",
}

const dimColor = "#555555"

// Palette holds the resolved semantic colors.
type Palette struct {
	Text       Color
	Track      Color
	Special    Color
	Dim        Color
	Background Color
}

// Host is what a drawer needs from the poster it is drawn on.
type Host interface {
	M2U(meters float64) float64
	UnitLabel() string
	Palette() Palette
	SpecialDistance() float64
}

// Settings is the Host used by the command line tool.
type Settings struct {
	Unit    units.Unit
	palette Palette
	special float64
}

// NewSettings resolves named colors over the defaults. A malformed color
// or a negative special distance is a configuration error; zero selects
// the default special distance.
func NewSettings(unit units.Unit, colors map[string]string, specialDistance float64) (*Settings, error) {
	resolved := make(map[string]Color, len(defaultColors))
	for name, def := range defaultColors {
		value := def
		for k, v := range colors {
			if strings.EqualFold(k, name) && strings.TrimSpace(v) != "" {
				value = v
			}
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("color %s: %w", name, err)
		}
		resolved[name] = c
	}

	if specialDistance < 0 {
		return nil, fmt.Errorf("special distance must be positive, got %v", specialDistance)
	}
	if specialDistance == 0 {
		specialDistance = DefaultSpecialDistance
	}

	return &Settings{
		Unit: unit,
		palette: Palette{
			Text:       resolved["text"],
			Track:      resolved["track"],
			Special:    resolved["special"],
			Dim:        MustParseColor(dimColor),
			Background: resolved["background"],
		},
		special: specialDistance,
	}, nil
}

func (s *Settings) M2U(meters float64) float64 { return s.Unit.M2U(meters) }
func (s *Settings) UnitLabel() string { return s.Unit.Label() }
func (s *Settings) Palette() Palette { return s.palette }
func (s *Settings) SpecialDistance() float64 { return s.special }
