package radar

import (
	"testing"

	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/raster"
)

func TestMapperDistance(t *testing.T) {
	m := NewMapper(config.Default())
	tests := []struct {
		rssi int
		want float64
	}{
		{-100, 200},
		{-30, 60},
		{-10, 20},
		{0, 0},
		{20, 0},
		{-120, 200},
	}
	for _, tt := range tests {
		if got := m.Distance(tt.rssi); got != tt.want {
			t.Errorf("Distance(%d) = %v, want %v", tt.rssi, got, tt.want)
		}
	}

	prev := m.Distance(-200)
	for rssi := -199; rssi <= 50; rssi++ {
		d := m.Distance(rssi)
		if d > prev {
			t.Fatalf("Distance(%d) = %v > Distance(%d) = %v", rssi, d, rssi-1, prev)
		}
		if d < 0 || d > m.MaxRadius {
			t.Fatalf("Distance(%d) = %v outside [0, %v]", rssi, d, m.MaxRadius)
		}
		prev = d
	}
}

func TestMapperPosition(t *testing.T) {
	m := NewMapper(config.Default())
	tests := []struct {
		rank, rssi int
		want       raster.Point
	}{
		{0, -100, raster.Point{X: 200, Y: 0}},
		{1, -100, raster.Point{X: 141, Y: 141}},
		{2, -100, raster.Point{X: 0, Y: 200}},
		{4, -100, raster.Point{X: -200, Y: 0}},
		{6, -100, raster.Point{X: 0, Y: -200}},
		{8, -50, raster.Point{X: 100, Y: 0}},
		{3, 0, raster.Point{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		if got := m.Position(tt.rank, tt.rssi); got != tt.want {
			t.Errorf("Position(%d, %d) = %v, want %v", tt.rank, tt.rssi, got, tt.want)
		}
	}
	if got := m.Angle(3); got != 135 {
		t.Errorf("Angle(3) = %v, want 135", got)
	}
	if got := m.Position3(2, -100); got.Z != 0 || got.Round() != (raster.Point{X: 0, Y: 200}) {
		t.Errorf("Position3(2, -100) = %+v", got)
	}
}
