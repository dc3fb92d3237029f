package ui

import (
	"sweep-radar.klederson.com/internal/radar"
	"sweep-radar.klederson.com/internal/raster"
)

const compassRadius = 10

// RenderCompass draws a small dial with an arrow toward bearing, in degrees
// counter-clockwise from east. It draws on a Canvas with the same raster
// primitives as the scope.
func RenderCompass(width, height int, bearing float64, theme radar.Theme) string {
	if width < 9 || height < 5 {
		return ""
	}
	var origin raster.Point
	c := NewCanvas(width, height, compassRadius)
	c.Clear(theme.Background)

	c.SetColor(theme.RadarLine.Scale(0.5))
	c.DrawPoints(raster.Circle(origin, compassRadius-2))

	c.SetColor(theme.SweepLine)
	c.DrawLine(origin, raster.Polar(origin, compassRadius-3, bearing))

	c.SetColor(theme.Text)
	for _, m := range []struct {
		at    raster.Point
		label string
	}{
		{raster.Point{Y: compassRadius}, "N"},
		{raster.Point{Y: -compassRadius}, "S"},
		{raster.Point{X: compassRadius}, "E"},
		{raster.Point{X: -compassRadius}, "W"},
	} {
		c.DrawText(m.at, m.label)
	}
	c.DrawText(origin, "+")
	return c.Render()
}
