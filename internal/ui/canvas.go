package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/radar"
	"sweep-radar.klederson.com/internal/raster"
)

type cell struct {
	ch rune
	fg draw.Color
	bg draw.Color
}

// Canvas is a draw.Surface on a grid of terminal cells. Radar pixels are
// scaled so the outer ring fits the grid, with rows squeezed by the
// character aspect ratio.
type Canvas struct {
	cols, rows int
	cx, cy     int
	sx, sy     float64
	cells      []cell
	bg         draw.Color
	color      draw.Color
	size       int
}

// Ensure Canvas implements Surface
var _ draw.Surface = (*Canvas)(nil)

// NewCanvas creates a cols×rows canvas that fits a scope of the given
// radius.
func NewCanvas(cols, rows, radius int) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	halfC, halfR := (cols-1)/2, (rows-1)/2
	r := float64(max(radius, 1))
	scale := math.Min(float64(halfC)/r, float64(halfR)/(r*config.AspectRatio))
	c := &Canvas{
		cols:  cols,
		rows:  rows,
		cx:    halfC,
		cy:    halfR,
		sx:    scale,
		sy:    scale * config.AspectRatio,
		cells: make([]cell, cols*rows),
		size:  1,
	}
	c.Clear(draw.RGB(0, 0, 0))
	return c
}

// Cell maps a radar pixel to a column and row.
func (c *Canvas) Cell(p raster.Point) (col, row int) {
	return c.cx + int(math.Round(float64(p.X)*c.sx)), c.cy - int(math.Round(float64(p.Y)*c.sy))
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *Canvas) Clear(bg draw.Color) {
	c.bg = bg
	for i := range c.cells {
		c.cells[i] = cell{ch: ' ', bg: bg}
	}
}

func (c *Canvas) SetColor(col draw.Color) { c.color = col }

func (c *Canvas) SetPointSize(size int) { c.size = size }

// DrawPoints marks each covered cell; large points draw as blips.
func (c *Canvas) DrawPoints(pts []raster.Point) {
	glyph := '·'
	if c.size >= 4 {
		glyph = '●'
	}
	fg := c.blend(c.color)
	for _, p := range pts {
		if cl := c.at(c.Cell(p)); cl != nil {
			cl.ch = glyph
			cl.fg = fg
		}
	}
}

// DrawLine rasterizes the segment again in cell space so short segments
// stay connected after scaling.
func (c *Canvas) DrawLine(p0, p1 raster.Point) {
	c0, r0 := c.Cell(p0)
	c1, r1 := c.Cell(p1)
	deg := math.Atan2(float64(p1.Y-p0.Y), float64(p1.X-p0.X)) * 180 / math.Pi
	glyph := radar.DirectionGlyph(deg)
	fg := c.blend(c.color)
	for _, q := range raster.Line(raster.Point{X: c0, Y: r0}, raster.Point{X: c1, Y: r1}) {
		if cl := c.at(q.X, q.Y); cl != nil {
			cl.ch = glyph
			cl.fg = fg
		}
	}
}

// FillRect tints the background of the covered cells, keeping glyphs.
func (c *Canvas) FillRect(lo, hi raster.Point) {
	c0, r0 := c.Cell(lo)
	c1, r1 := c.Cell(hi)
	c0, c1 = min(c0, c1), max(c0, c1)
	r0, r1 = min(r0, r1), max(r0, r1)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			if cl := c.at(col, row); cl != nil {
				cl.bg = mix(cl.bg, c.color, c.color.A)
			}
		}
	}
}

func (c *Canvas) DrawText(at raster.Point, s string) {
	col, row := c.Cell(at)
	fg := c.blend(c.color)
	for _, r := range s {
		if cl := c.at(col, row); cl != nil {
			cl.ch = r
			cl.fg = fg
		}
		col++
	}
}

// blend flattens a translucent color onto the canvas background.
func (c *Canvas) blend(col draw.Color) draw.Color {
	if col.A >= 1 {
		return col
	}
	return mix(c.bg, col, col.A)
}

func mix(dst, src draw.Color, a float64) draw.Color {
	return draw.Color{
		R: dst.R*(1-a) + src.R*a,
		G: dst.G*(1-a) + src.G*a,
		B: dst.B*(1-a) + src.B*a,
		A: 1,
	}
}

// Plain returns the glyphs without styling, one line per row.
func (c *Canvas) Plain() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			sb.WriteRune(c.cells[row*c.cols+col].ch)
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Render styles the grid, batching runs of cells that share colors.
func (c *Canvas) Render() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		line := c.cells[row*c.cols : (row+1)*c.cols]
		for i := 0; i < len(line); {
			j := i + 1
			for j < len(line) && line[j].fg == line[i].fg && line[j].bg == line[i].bg {
				j++
			}
			var run strings.Builder
			for _, cl := range line[i:j] {
				run.WriteRune(cl.ch)
			}
			sty := lipgloss.NewStyle().
				Foreground(lipgloss.Color(line[i].fg.Hex())).
				Background(lipgloss.Color(line[i].bg.Hex()))
			sb.WriteString(sty.Render(run.String()))
			i = j
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }
