package raster

// Circle returns the outline of a circle of radius r around center using the
// midpoint algorithm. Each step emits the eight symmetric points, so the
// result may contain duplicates where octants meet (x == 0 or x == y).
// A radius of zero or less yields the center alone.
func Circle(center Point, r int) []Point {
	if r <= 0 {
		return []Point{center}
	}

	// Each step covers one column of an octant; about r/√2 steps.
	pts := make([]Point, 0, 8*(r*3/4+1))
	cx, cy := center.X, center.Y
	x, y := 0, r
	d := 1 - r
	for x <= y {
		pts = append(pts,
			Point{cx + x, cy + y},
			Point{cx - x, cy + y},
			Point{cx + x, cy - y},
			Point{cx - x, cy - y},
			Point{cx + y, cy + x},
			Point{cx - y, cy + x},
			Point{cx + y, cy - x},
			Point{cx - y, cy - x},
		)
		if d < 0 {
			d += 2*x + 3
		} else {
			d += 2*(x-y) + 5
			y--
		}
		x++
	}
	return pts
}
