package radar

import (
	"math"

	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/raster"
)

// Mapper places devices on the scope. Distance comes from signal strength
// alone and the angle from the device's rank in the sorted view; no bearing
// information exists upstream.
type Mapper struct {
	MaxRadius float64
	StepDeg   float64
	Center    raster.Point
}

// NewMapper builds a mapper centred on the origin.
func NewMapper(cfg config.Config) Mapper {
	return Mapper{
		MaxRadius: float64(cfg.Radius),
		StepDeg:   cfg.RankStepDeg,
	}
}

// Distance maps RSSI linearly onto [0, MaxRadius]: -100 dBm sits on the rim
// and every dB stronger moves two pixels inwards.
func (m Mapper) Distance(rssi int) float64 {
	d := m.MaxRadius - float64(rssi+100)*2
	return math.Max(0, math.Min(d, m.MaxRadius))
}

// Angle returns the placement angle for a sorted-view rank.
func (m Mapper) Angle(rank int) float64 {
	return float64(rank) * m.StepDeg
}

// Position is the blip pixel for rank and rssi.
func (m Mapper) Position(rank, rssi int) raster.Point {
	return raster.Polar(m.Center, m.Distance(rssi), m.Angle(rank))
}

// Position3 is Position on the z = 0 plane, without pixel snapping.
func (m Mapper) Position3(rank, rssi int) raster.Point3 {
	d, rad := m.Distance(rssi), m.Angle(rank)*math.Pi/180
	return raster.Point3{
		X: float64(m.Center.X) + d*math.Cos(rad),
		Y: float64(m.Center.Y) + d*math.Sin(rad),
	}
}
