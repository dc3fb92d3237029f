package radar

import (
	"testing"

	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/raster"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{49, 50, 0},
		{50, 50, 1},
		{-1, 50, -1},
		{-50, 50, -1},
		{-51, 50, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBinHeat(t *testing.T) {
	pts := []raster.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: -10, Y: 5}, {X: 60, Y: 0}, {X: 0, Y: -1}}
	got := BinHeat(pts, 50)
	want := []HeatCell{
		{GX: 0, GY: -1, Count: 1},
		{GX: -1, GY: 0, Count: 1},
		{GX: 0, GY: 0, Count: 2},
		{GX: 1, GY: 0, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("BinHeat() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if BinHeat(pts, 0) != nil {
		t.Error("BinHeat with zero cell size returned cells")
	}
}

func TestHeatCellColor(t *testing.T) {
	ramp := ThemeAt(0).Heatmap
	tests := []struct {
		count     int
		intensity float64
		want      draw.Color
	}{
		{1, 0.2, ramp[0].WithAlpha(0.1)},
		{2, 0.4, ramp[1].WithAlpha(0.2)},
		{5, 1, ramp[2].WithAlpha(0.5)},
		{9, 1, ramp[2].WithAlpha(0.5)},
	}
	for _, tt := range tests {
		c := HeatCell{Count: tt.count}
		if got := c.Intensity(); got != tt.intensity {
			t.Errorf("Intensity(count %d) = %v, want %v", tt.count, got, tt.intensity)
		}
		if got := c.Color(ramp); got != tt.want {
			t.Errorf("Color(count %d) = %+v, want %+v", tt.count, got, tt.want)
		}
	}

	lo, hi := HeatCell{GX: -1, GY: 2}.Bounds(50)
	if lo != (raster.Point{X: -50, Y: 100}) || hi != (raster.Point{X: 0, Y: 150}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestThemes(t *testing.T) {
	if ThemeCount() != 3 {
		t.Fatalf("ThemeCount() = %d, want 3", ThemeCount())
	}
	if got := ThemeAt(-1).Name; got != "orange" {
		t.Errorf("ThemeAt(-1) = %s, want orange", got)
	}
	if got := ThemeAt(4).Name; got != "blue" {
		t.Errorf("ThemeAt(4) = %s, want blue", got)
	}
	if i, ok := ThemeIndex("blue"); !ok || i != 1 {
		t.Errorf("ThemeIndex(blue) = %d, %v", i, ok)
	}
	if _, ok := ThemeIndex("purple"); ok {
		t.Error("ThemeIndex(purple) found a theme")
	}
}

func TestGeometry(t *testing.T) {
	if got := NormalizeDeg(-90); got != 270 {
		t.Errorf("NormalizeDeg(-90) = %v, want 270", got)
	}
	if got := NormalizeDeg(720); got != 0 {
		t.Errorf("NormalizeDeg(720) = %v, want 0", got)
	}
	if got := NormalizeDeg(-1e-17); got < 0 || got >= 360 {
		t.Errorf("NormalizeDeg(-1e-17) = %v, want within [0, 360)", got)
	}

	glyphs := map[float64]rune{0: '-', 45: '/', 90: '|', 135: '\\', 180: '-', 225: '/', 315: '\\'}
	for deg, want := range glyphs {
		if got := DirectionGlyph(deg); got != want {
			t.Errorf("DirectionGlyph(%v) = %q, want %q", deg, got, want)
		}
	}
	points := map[float64]string{0: "E", 90: "N", 100: "N", 180: "W", 315: "SE", 359: "E"}
	for deg, want := range points {
		if got := CompassPoint(deg); got != want {
			t.Errorf("CompassPoint(%v) = %s, want %s", deg, got, want)
		}
	}
}
