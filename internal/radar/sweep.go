package radar

import "math"

// MinSpeed is the slowest the sweep may turn, in degrees per tick.
const MinSpeed = 1.0

// SweepState is a copy of the sweep's observable state.
type SweepState struct {
	Angle  float64 // Degrees in [0, 360)
	Speed  float64 // Degrees per tick
	Paused bool
}

// Sweep is the rotating beam. It is not safe for concurrent use; the
// Controller serialises access.
type Sweep struct {
	angle  float64
	speed  float64
	paused bool
}

// NewSweep creates a running sweep at angle 0. speed is clamped to MinSpeed.
func NewSweep(speed float64) *Sweep {
	s := &Sweep{}
	s.SetSpeed(speed)
	return s
}

// Advance moves the beam by speed·dt degrees and reports whether it wrapped
// past 360. The wrap is detected by the new angle being strictly below the
// old one, so a step of exactly 360 degrees never reports.
func (s *Sweep) Advance(dt float64) bool {
	if s.paused {
		return false
	}
	next := NormalizeDeg(s.angle + s.speed*dt)
	wrapped := next < s.angle
	s.angle = next
	return wrapped
}

// SetSpeed sets degrees per tick, clamped to MinSpeed.
func (s *Sweep) SetSpeed(v float64) {
	if v < MinSpeed || math.IsNaN(v) {
		v = MinSpeed
	}
	s.speed = v
}

// Faster adds one degree per tick.
func (s *Sweep) Faster() { s.SetSpeed(s.speed + 1) }

// Slower removes one degree per tick, down to MinSpeed.
func (s *Sweep) Slower() { s.SetSpeed(s.speed - 1) }

// SetAngle places the beam, wrapping deg into [0, 360).
func (s *Sweep) SetAngle(deg float64) {
	s.angle = NormalizeDeg(deg)
}

func (s *Sweep) SetPaused(p bool) { s.paused = p }

// Toggle flips between running and paused and returns the new paused state.
func (s *Sweep) Toggle() bool {
	s.paused = !s.paused
	return s.paused
}

// Reset returns the beam to 0 degrees. Speed and pause state are kept.
func (s *Sweep) Reset() { s.angle = 0 }

func (s *Sweep) State() SweepState {
	return SweepState{Angle: s.angle, Speed: s.speed, Paused: s.paused}
}
