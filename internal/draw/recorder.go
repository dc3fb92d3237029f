package draw

import "sweep-radar.klederson.com/internal/raster"

// Recorder is a Surface that captures primitives instead of drawing them.
// The zero value is ready to use.
type Recorder struct {
	cmds []Command
}

// Ensure Recorder implements Surface
var _ Surface = (*Recorder)(nil)

func (r *Recorder) Clear(c Color)         { r.cmds = append(r.cmds, ClearCommand{Color: c}) }
func (r *Recorder) SetColor(c Color)      { r.cmds = append(r.cmds, SetColorCommand{Color: c}) }
func (r *Recorder) SetPointSize(size int) { r.cmds = append(r.cmds, SetPointSizeCommand{Size: size}) }

func (r *Recorder) DrawPoints(pts []raster.Point) {
	if len(pts) == 0 {
		return
	}
	r.cmds = append(r.cmds, DrawPointsCommand{Points: pts})
}

func (r *Recorder) DrawLine(p0, p1 raster.Point) {
	r.cmds = append(r.cmds, DrawLineCommand{From: p0, To: p1})
}

func (r *Recorder) FillRect(min, max raster.Point) {
	r.cmds = append(r.cmds, FillRectCommand{Min: min, Max: max})
}

func (r *Recorder) DrawText(at raster.Point, s string) {
	r.cmds = append(r.cmds, DrawTextCommand{At: at, Text: s})
}

// Finish returns the recorded commands and resets the recorder.
func (r *Recorder) Finish() Recording {
	rec := Recording{Commands: r.cmds}
	r.cmds = nil
	return rec
}

// Recording is an ordered, immutable list of commands for one frame.
type Recording struct {
	Commands []Command
}

// Playback applies every command to s in order.
func (r Recording) Playback(s Surface) {
	for _, c := range r.Commands {
		c.Apply(s)
	}
}

// Count returns how many commands of type t the recording holds.
func (r Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.Commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}
