package radar

import "sweep-radar.klederson.com/internal/draw"

// Theme is a scope color scheme.
type Theme struct {
	Name       string
	Background draw.Color
	RadarLine  draw.Color
	SweepLine  draw.Color
	DeviceOn   draw.Color
	DeviceOff  draw.Color
	Heatmap    [3]draw.Color // Low to high density
	Text       draw.Color
}

var themes = []Theme{
	{
		Name:       "green",
		Background: draw.RGB(0, 0, 0),
		RadarLine:  draw.RGB(0, 1, 0),
		SweepLine:  draw.RGB(0, 1, 0),
		DeviceOn:   draw.RGB(1, 0, 0),
		DeviceOff:  draw.RGB(0.5, 0, 0),
		Heatmap:    [3]draw.Color{draw.RGB(0, 0, 1), draw.RGB(0, 1, 0), draw.RGB(1, 1, 0)},
		Text:       draw.RGB(1, 1, 1),
	},
	{
		Name:       "blue",
		Background: draw.RGB(0, 0, 0.1),
		RadarLine:  draw.RGB(0, 1, 1),
		SweepLine:  draw.RGB(0, 1, 1),
		DeviceOn:   draw.RGB(1, 1, 0),
		DeviceOff:  draw.RGB(0.5, 0.5, 0),
		Heatmap:    [3]draw.Color{draw.RGB(0, 0, 1), draw.RGB(0, 1, 1), draw.RGB(1, 1, 1)},
		Text:       draw.RGB(1, 1, 1),
	},
	{
		Name:       "orange",
		Background: draw.RGB(0.1, 0.05, 0),
		RadarLine:  draw.RGB(1, 0.5, 0),
		SweepLine:  draw.RGB(1, 0.7, 0),
		DeviceOn:   draw.RGB(0, 1, 0),
		DeviceOff:  draw.RGB(0, 0.5, 0),
		Heatmap:    [3]draw.Color{draw.RGB(1, 0, 0), draw.RGB(1, 1, 0), draw.RGB(1, 1, 1)},
		Text:       draw.RGB(1, 1, 1),
	},
}

// ThemeCount is the number of built-in themes.
func ThemeCount() int { return len(themes) }

// ThemeAt returns theme i, wrapping out-of-range indexes.
func ThemeAt(i int) Theme {
	n := len(themes)
	return themes[((i%n)+n)%n]
}

// ThemeIndex looks a theme up by name.
func ThemeIndex(name string) (int, bool) {
	for i, t := range themes {
		if t.Name == name {
			return i, true
		}
	}
	return 0, false
}
