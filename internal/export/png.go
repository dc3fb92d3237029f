// Package export renders radar frames to PNG images.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/raster"
)

// LabelSize is the font size of blip captions, in pixels.
const LabelSize = 12

// PNGSurface is a draw.Surface backed by a gg raster context. Radar
// coordinates are centred in the image with Y pointing up.
type PNGSurface struct {
	dc    *gg.Context
	w, h  int
	color draw.Color
	size  int
	errs  []error
}

// Ensure PNGSurface implements draw.Surface
var _ draw.Surface = (*PNGSurface)(nil)

// NewPNGSurface creates a w×h image with the monospace label font loaded.
func NewPNGSurface(w, h int) (*PNGSurface, error) {
	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}
	dc := gg.NewContext(w, h)
	dc.SetFont(src.Face(LabelSize))
	return &PNGSurface{dc: dc, w: w, h: h, color: draw.RGB(1, 1, 1), size: 1}, nil
}

func (s *PNGSurface) device(p raster.Point) (float64, float64) {
	return float64(s.w/2 + p.X), float64(s.h/2 - p.Y)
}

func (s *PNGSurface) rgba(c draw.Color) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (s *PNGSurface) Clear(c draw.Color) {
	s.dc.ClearWithColor(s.rgba(c))
}

func (s *PNGSurface) SetColor(c draw.Color) {
	s.color = c
	s.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func (s *PNGSurface) SetPointSize(size int) {
	s.size = max(1, size)
	s.dc.SetLineWidth(float64(s.size))
}

// DrawPoints plots single pixels at size 1 and filled squares centred on
// each point otherwise.
func (s *PNGSurface) DrawPoints(pts []raster.Point) {
	if s.size <= 1 {
		col := s.rgba(s.color)
		for _, p := range pts {
			x, y := s.device(p)
			if x < 0 || y < 0 || int(x) >= s.w || int(y) >= s.h {
				continue
			}
			s.dc.SetPixel(int(x), int(y), col)
		}
		return
	}
	half := float64(s.size) / 2
	for _, p := range pts {
		x, y := s.device(p)
		s.dc.DrawRectangle(x-half, y-half, float64(s.size), float64(s.size))
	}
	s.check(s.dc.Fill())
}

func (s *PNGSurface) DrawLine(p0, p1 raster.Point) {
	x0, y0 := s.device(p0)
	x1, y1 := s.device(p1)
	s.dc.DrawLine(x0, y0, x1, y1)
	s.check(s.dc.Stroke())
}

func (s *PNGSurface) FillRect(lo, hi raster.Point) {
	x0, y0 := s.device(lo)
	x1, y1 := s.device(hi)
	s.dc.DrawRectangle(min(x0, x1), min(y0, y1), abs(x1-x0), abs(y1-y0))
	s.check(s.dc.Fill())
}

func (s *PNGSurface) DrawText(at raster.Point, str string) {
	x, y := s.device(at)
	s.dc.DrawString(str, x, y)
}

func (s *PNGSurface) check(err error) {
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// Err reports every fill or stroke failure since creation.
func (s *PNGSurface) Err() error {
	return errors.Join(s.errs...)
}

// Context exposes the underlying gg context.
func (s *PNGSurface) Context() *gg.Context {
	return s.dc
}

// WritePNG encodes the image to w.
func (s *PNGSurface) WritePNG(w io.Writer) error {
	if err := s.Err(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return s.dc.EncodePNG(w)
}

// Close releases the gg context.
func (s *PNGSurface) Close() error {
	return s.dc.Close()
}

// WriteFrame plays rec onto a fresh w×h surface and encodes it as PNG.
func WriteFrame(out io.Writer, rec draw.Recording, w, h int) error {
	s, err := NewPNGSurface(w, h)
	if err != nil {
		return err
	}
	defer s.Close()
	rec.Playback(s)
	return s.WritePNG(out)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
