package radar

import "math"

// NormalizeDeg wraps an angle in degrees to [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// A tiny negative input rounds up to exactly 360 above.
	if a >= 360 {
		a = 0
	}
	return a
}

// DirectionGlyph returns the character that best draws a stroke heading deg
// degrees, counter-clockwise from east.
func DirectionGlyph(deg float64) rune {
	// 8 sectors; opposite directions share a glyph.
	switch int(math.Round(NormalizeDeg(deg)/45)) % 4 {
	case 0:
		return '-'
	case 1:
		return '/'
	case 2:
		return '|'
	default:
		return '\\'
	}
}

// CompassPoint names the eight-way heading nearest deg, with 90 degrees as
// north.
func CompassPoint(deg float64) string {
	names := [...]string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}
	return names[int(math.Round(NormalizeDeg(deg)/45))%8]
}
