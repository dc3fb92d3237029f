package draw

import "sweep-radar.klederson.com/internal/raster"

// CommandType identifies a drawing primitive.
type CommandType uint8

const (
	CmdClear CommandType = iota
	CmdSetColor
	CmdSetPointSize
	CmdDrawPoints
	CmdDrawLine
	CmdFillRect
	CmdDrawText
)

var commandTypeNames = [...]string{
	CmdClear:        "Clear",
	CmdSetColor:     "SetColor",
	CmdSetPointSize: "SetPointSize",
	CmdDrawPoints:   "DrawPoints",
	CmdDrawLine:     "DrawLine",
	CmdFillRect:     "FillRect",
	CmdDrawText:     "DrawText",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded primitive. Apply replays it onto a surface.
type Command interface {
	Type() CommandType
	Apply(s Surface)
}

type ClearCommand struct{ Color Color }

type SetColorCommand struct{ Color Color }

type SetPointSizeCommand struct{ Size int }

type DrawPointsCommand struct{ Points []raster.Point }

type DrawLineCommand struct{ From, To raster.Point }

type FillRectCommand struct{ Min, Max raster.Point }

type DrawTextCommand struct {
	At   raster.Point
	Text string
}

func (ClearCommand) Type() CommandType        { return CmdClear }
func (SetColorCommand) Type() CommandType     { return CmdSetColor }
func (SetPointSizeCommand) Type() CommandType { return CmdSetPointSize }
func (DrawPointsCommand) Type() CommandType   { return CmdDrawPoints }
func (DrawLineCommand) Type() CommandType     { return CmdDrawLine }
func (FillRectCommand) Type() CommandType     { return CmdFillRect }
func (DrawTextCommand) Type() CommandType     { return CmdDrawText }

func (c ClearCommand) Apply(s Surface)        { s.Clear(c.Color) }
func (c SetColorCommand) Apply(s Surface)     { s.SetColor(c.Color) }
func (c SetPointSizeCommand) Apply(s Surface) { s.SetPointSize(c.Size) }
func (c DrawPointsCommand) Apply(s Surface)   { s.DrawPoints(c.Points) }
func (c DrawLineCommand) Apply(s Surface)     { s.DrawLine(c.From, c.To) }
func (c FillRectCommand) Apply(s Surface)     { s.FillRect(c.Min, c.Max) }
func (c DrawTextCommand) Apply(s Surface)     { s.DrawText(c.At, c.Text) }
