// Package draw defines the primitive command stream the radar emits each
// frame and the Surface contract that renderers implement.
//
// Coordinates are radar pixels with the origin at the radar center and Y
// growing upwards. Surfaces map them onto their own device space.
package draw

import "sweep-radar.klederson.com/internal/raster"

// Color is a non-premultiplied color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Scale multiplies the color channels by f, leaving alpha unchanged.
func (c Color) Scale(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Hex formats the color as #RRGGBB, ignoring alpha.
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	b := [7]byte{'#'}
	for i, v := range [3]float64{c.R, c.G, c.B} {
		n := to255(v)
		b[1+2*i] = digits[n>>4]
		b[2+2*i] = digits[n&0x0F]
	}
	return string(b[:])
}

func to255(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Surface receives drawing primitives. Implementations own their device
// (terminal cells, an image) and never call back into the radar.
type Surface interface {
	// Clear fills the whole surface with c.
	Clear(c Color)
	// SetColor sets the color for subsequent primitives.
	SetColor(c Color)
	// SetPointSize sets the diameter, in pixels, used by DrawPoints.
	SetPointSize(size int)
	// DrawPoints plots each point in the current color.
	DrawPoints(pts []raster.Point)
	// DrawLine draws a segment in the current color.
	DrawLine(p0, p1 raster.Point)
	// FillRect fills the axis-aligned rectangle spanned by min and max.
	FillRect(min, max raster.Point)
	// DrawText draws s with its baseline origin at the given point.
	DrawText(at raster.Point, s string)
}
