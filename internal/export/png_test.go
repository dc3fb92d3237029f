package export

import (
	"bytes"
	"image/png"
	"testing"

	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/raster"
)

func TestPNGSurfacePixels(t *testing.T) {
	s, err := NewPNGSurface(40, 20)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Clear(draw.RGB(0, 0, 0))
	s.SetColor(draw.RGB(1, 0, 0))
	s.SetPointSize(1)
	s.DrawPoints([]raster.Point{{X: 0, Y: 0}, {X: 5, Y: 3}, {X: 500, Y: 0}})

	img := s.Context().Image()
	tests := []struct {
		x, y    int
		wantRed bool
	}{
		{20, 10, true},
		{25, 7, true},
		{21, 10, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		isRed := r > 0xF000 && g == 0 && b == 0
		if isRed != tt.wantRed {
			t.Errorf("pixel (%d, %d) = %d %d %d, red %v, want %v", tt.x, tt.y, r, g, b, isRed, tt.wantRed)
		}
	}
}

func TestWriteFrame(t *testing.T) {
	var rec draw.Recorder
	rec.Clear(draw.RGB(0, 0, 0.1))
	rec.SetColor(draw.RGB(0, 1, 0))
	rec.SetPointSize(2)
	rec.DrawPoints(raster.Circle(raster.Point{}, 20))
	rec.DrawLine(raster.Point{}, raster.Point{X: 20, Y: 0})
	rec.SetColor(draw.RGB(1, 1, 0).WithAlpha(0.3))
	rec.FillRect(raster.Point{X: -10, Y: -10}, raster.Point{X: 0, Y: 0})
	rec.SetColor(draw.RGB(1, 1, 1))
	rec.DrawText(raster.Point{X: 5, Y: 5}, "phone (-40 dBm)")

	var buf bytes.Buffer
	if err := WriteFrame(&buf, rec.Finish(), 64, 64); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("image size = %v, want 64x64", b)
	}
}
