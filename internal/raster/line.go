package raster

import "math"

// Line returns the pixels of the segment from p0 to p1 inclusive using an
// integer error accumulator. The walk always steps along the axis with the
// larger delta, so the result has max(|dx|,|dy|)+1 points and every point
// is 8-connected to the previous one.
func Line(p0, p1 Point) []Point {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	reversed := x0 > x1
	if reversed {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	ystep := 1
	if dy < 0 {
		ystep = -1
		dy = -dy
	}

	pts := make([]Point, 0, dx+1)
	d := 2*dy - dx
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			pts = append(pts, Point{y, x})
		} else {
			pts = append(pts, Point{x, y})
		}
		if d > 0 {
			y += ystep
			d -= 2 * dx
		}
		d += 2 * dy
	}

	if reversed {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts
}

// Line3D returns steps+1 points from p0 towards p1 by repeated floating
// point addition, where steps is the largest absolute axis delta truncated
// to a whole count. Unlike Line it treats all three axes alike and is not
// integer-exact; the last point may differ from p1 by accumulated rounding.
func Line3D(p0, p1 Point3) []Point3 {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	dz := p1.Z - p0.Z

	steps := int(math.Max(math.Abs(dx), math.Max(math.Abs(dy), math.Abs(dz))))
	if steps == 0 {
		return []Point3{p0}
	}

	xinc := dx / float64(steps)
	yinc := dy / float64(steps)
	zinc := dz / float64(steps)

	pts := make([]Point3, 0, steps+1)
	p := p0
	pts = append(pts, p)
	for i := 0; i < steps; i++ {
		p.X += xinc
		p.Y += yinc
		p.Z += zinc
		pts = append(pts, p)
	}
	return pts
}
