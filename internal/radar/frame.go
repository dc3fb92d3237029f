package radar

import (
	"fmt"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/draw"
	"sweep-radar.klederson.com/internal/raster"
)

const (
	linePointSize = 2
	labelOffset   = 10
)

// Blip is a device placed on the scope.
type Blip struct {
	Device   bluetooth.Device
	At       raster.Point
	AngleDeg float64
	Distance float64
}

// Frame is everything drawn for one tick.
type Frame struct {
	Sweep      SweepState
	Theme      Theme
	Blink      bool
	Revolution bool // The tick that produced this frame completed a revolution
	Blips      []Blip
	Commands   draw.Recording
}

// FrameBuilder turns a device snapshot and sweep state into draw commands.
// It holds only configuration and is safe for concurrent use.
type FrameBuilder struct {
	cfg    config.Config
	mapper Mapper
}

func NewFrameBuilder(cfg config.Config) *FrameBuilder {
	return &FrameBuilder{cfg: cfg, mapper: NewMapper(cfg)}
}

// Mapper returns the mapper used for blip placement.
func (b *FrameBuilder) Mapper() Mapper { return b.mapper }

// Build draws background, rings, spokes, sweep, blips, labels and the
// optional heatmap, in that order. devices must be in sorted-view order;
// only the first MaxBlips are drawn, the heatmap counts them all.
func (b *FrameBuilder) Build(devices []bluetooth.Device, sweep SweepState, theme Theme, blink bool) Frame {
	var rec draw.Recorder
	center := b.mapper.Center
	radius := b.cfg.Radius

	rec.Clear(theme.Background)

	rec.SetColor(theme.RadarLine)
	rec.SetPointSize(linePointSize)
	rec.DrawPoints(raster.Circle(center, radius))
	step := radius / b.cfg.Rings
	for i := 1; i < b.cfg.Rings; i++ {
		rec.DrawPoints(raster.Circle(center, step*i))
	}
	for deg := 0; deg < 360; deg += b.cfg.SpokeStepDeg {
		b.spoke(&rec, float64(deg))
	}

	sweepColor := theme.SweepLine
	if sweep.Paused {
		sweepColor = sweepColor.Scale(0.5)
	}
	rec.SetColor(sweepColor)
	b.spoke(&rec, sweep.Angle)

	blips := b.place(devices)
	shown := blips[:min(len(blips), b.cfg.MaxBlips)]
	if len(shown) > 0 {
		pts := make([]raster.Point, len(shown))
		for i, bl := range shown {
			pts[i] = bl.At
		}
		rec.SetPointSize(b.cfg.BlipSize)
		if blink {
			rec.SetColor(theme.DeviceOn)
		} else {
			rec.SetColor(theme.DeviceOff)
		}
		rec.DrawPoints(pts)

		rec.SetColor(theme.Text)
		for _, bl := range shown {
			at := bl.At.Add(raster.Point{X: labelOffset, Y: labelOffset})
			rec.DrawText(at, BlipLabel(bl.Device))
		}
		rec.SetPointSize(linePointSize)
	}

	if b.cfg.Heatmap {
		pts := make([]raster.Point, len(blips))
		for i, bl := range blips {
			pts[i] = bl.At
		}
		for _, cell := range BinHeat(pts, b.cfg.HeatmapCell) {
			rec.SetColor(cell.Color(theme.Heatmap))
			lo, hi := cell.Bounds(b.cfg.HeatmapCell)
			rec.FillRect(lo, hi)
		}
	}

	return Frame{
		Sweep:    sweep,
		Theme:    theme,
		Blink:    blink,
		Blips:    shown,
		Commands: rec.Finish(),
	}
}

// BlipLabel is the caption drawn beside a blip.
func BlipLabel(d bluetooth.Device) string {
	return fmt.Sprintf("%s (%d dBm)", d.Label(), d.RSSI)
}

func (b *FrameBuilder) place(devices []bluetooth.Device) []Blip {
	blips := make([]Blip, len(devices))
	for i, d := range devices {
		at := b.mapper.Position(i, d.RSSI)
		if b.cfg.Volumetric {
			at = b.mapper.Position3(i, d.RSSI).Round()
		}
		blips[i] = Blip{
			Device:   d,
			At:       at,
			AngleDeg: b.mapper.Angle(i),
			Distance: b.mapper.Distance(d.RSSI),
		}
	}
	return blips
}

// spoke draws a radius from the center at deg. In volumetric mode the 3D
// line is emitted as connected segments rather than pixels.
func (b *FrameBuilder) spoke(rec *draw.Recorder, deg float64) {
	center := b.mapper.Center
	end := raster.Polar(center, float64(b.cfg.Radius), deg)
	if !b.cfg.Volumetric {
		rec.DrawPoints(raster.Line(center, end))
		return
	}
	pts := raster.Line3D(
		raster.Point3{X: float64(center.X), Y: float64(center.Y)},
		raster.Point3{X: float64(end.X), Y: float64(end.Y)},
	)
	if len(pts) == 1 {
		rec.DrawPoints([]raster.Point{pts[0].Round()})
		return
	}
	for i := 1; i < len(pts); i++ {
		rec.DrawLine(pts[i-1].Round(), pts[i].Round())
	}
}
