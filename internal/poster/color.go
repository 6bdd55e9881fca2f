package poster

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGB triple. Hex strings only appear at the edges.
type Color struct {
	R, G, B uint8
}

// ParseColor reads six hex digits, with or without a leading '#'.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseColor is ParseColor for constants known to be valid.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as lowercase #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// Interpolate moves from one color toward another by t in [0, 1], each
// channel truncated toward zero.
func Interpolate(from, to Color, t float64) Color {
	lerp := func(a, b uint8) uint8 {
		return uint8(int(float64(a) + (float64(b)-float64(a))*t))
	}
	return Color{
		R: lerp(from.R, to.R),
		G: lerp(from.G, to.G),
		B: lerp(from.B, to.B),
	}
}
