package radar

import (
	"cmp"
	"slices"

	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/raster"
)

// heatSaturation is the blip count at which a cell reaches full intensity.
const heatSaturation = 5

// HeatCell is one occupied heatmap bin. Bins are aligned to multiples of the
// cell size; GX, GY are bin indexes.
type HeatCell struct {
	GX, GY int
	Count  int
}

// Intensity is Count/5 capped at 1.
func (c HeatCell) Intensity() float64 {
	return min(float64(c.Count)/heatSaturation, 1)
}

// Color picks the ramp stop for the cell's intensity and sets alpha to half
// the intensity.
func (c HeatCell) Color(ramp [3]draw.Color) draw.Color {
	in := c.Intensity()
	idx := min(int(in*float64(len(ramp))), len(ramp)-1)
	return ramp[idx].WithAlpha(in * 0.5)
}

// Bounds returns the cell's pixel rectangle.
func (c HeatCell) Bounds(size int) (lo, hi raster.Point) {
	lo = raster.Point{X: c.GX * size, Y: c.GY * size}
	hi = raster.Point{X: lo.X + size, Y: lo.Y + size}
	return lo, hi
}

// BinHeat counts points per size×size cell. Cells are returned row by row,
// bottom to top.
func BinHeat(points []raster.Point, size int) []HeatCell {
	if size <= 0 {
		return nil
	}
	counts := make(map[[2]int]int)
	for _, p := range points {
		counts[[2]int{floorDiv(p.X, size), floorDiv(p.Y, size)}]++
	}
	cells := make([]HeatCell, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, HeatCell{GX: k[0], GY: k[1], Count: n})
	}
	slices.SortFunc(cells, func(a, b HeatCell) int {
		if c := cmp.Compare(a.GY, b.GY); c != 0 {
			return c
		}
		return cmp.Compare(a.GX, b.GX)
	})
	return cells
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
