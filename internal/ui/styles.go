package ui

import (
	"github.com/charmbracelet/lipgloss"

	"sweep-radar.klederson.com/internal/bluetooth"
)

// Phosphor palette
var (
	ColorPhosphor    = lipgloss.Color("#00FF41")
	ColorGreen       = lipgloss.Color("#00CC33")
	ColorMidGreen    = lipgloss.Color("#008F11")
	ColorDimGreen    = lipgloss.Color("#004A0A")
	ColorDeviceBLE   = lipgloss.Color("#00FFAA")
	ColorDeviceClass = lipgloss.Color("#33FF66")
	ColorDeviceWiFi  = lipgloss.Color("#FFCC00")
	ColorBorderHot   = lipgloss.Color("#00FF41")
	ColorBorderNorm  = lipgloss.Color("#00AA22")
	ColorError       = lipgloss.Color("#FF3300")
	ColorWarning     = lipgloss.Color("#FFAA00")
)

var (
	StyleBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleRunning = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StylePaused = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderHot)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true).
			Padding(0, 1)

	StyleDeviceName = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleDeviceMAC = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleDeviceValue = lipgloss.NewStyle().
				Foreground(ColorGreen)

	StyleFilterOn = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleFilterOff = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleSeparator = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	// Cursor row: black on bright green
	StyleCursor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorPhosphor).
			Bold(true)
)

// TypeStyle colors a device by its type.
func TypeStyle(t bluetooth.DeviceType) lipgloss.Style {
	switch t {
	case bluetooth.DeviceTypeClassic:
		return lipgloss.NewStyle().Foreground(ColorDeviceClass)
	case bluetooth.DeviceTypeWiFi:
		return lipgloss.NewStyle().Foreground(ColorDeviceWiFi)
	default:
		return lipgloss.NewStyle().Foreground(ColorDeviceBLE)
	}
}

// proximityColor maps RSSI to a green shade, brighter when closer.
func proximityColor(rssi int) lipgloss.Color {
	switch {
	case rssi > -50:
		return "#00FF41"
	case rssi > -60:
		return "#00CC33"
	case rssi > -70:
		return "#00AA22"
	case rssi > -80:
		return "#008F11"
	}
	return "#005511"
}

// padBetween joins left and right with spaces so the result is width wide.
func padBetween(left, right string, width int) string {
	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + spaces(gap) + right
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
