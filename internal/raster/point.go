// Package raster produces pixel coordinates for circles and line segments
// using integer incremental algorithms, so no trigonometry runs per pixel.
package raster

import "math"

// Point is a pixel location.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Point3 is a location produced by the volumetric line variant.
// Coordinates are not snapped to the pixel grid.
type Point3 struct {
	X, Y, Z float64
}

// Round projects the point onto the XY pixel grid, dropping Z.
func (p Point3) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Polar returns the pixel at distance r from center along deg degrees,
// measured counter-clockwise from the positive X axis. Coordinates are
// truncated toward zero.
func Polar(center Point, r float64, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{
		X: center.X + int(r*math.Cos(rad)),
		Y: center.Y + int(r*math.Sin(rad)),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
