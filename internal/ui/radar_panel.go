package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/radar"
)

// RenderRadarPanel plays a frame onto a canvas sized for the panel and wraps
// it with a border and a one-line legend.
func RenderRadarPanel(width, height, radius int, f radar.Frame) string {
	innerW := max(width-4, 5)
	innerH := max(height-3, 3)

	canvas := NewCanvas(innerW, innerH, radius)
	f.Commands.Playback(canvas)

	blip := lipgloss.NewStyle().Foreground(lipgloss.Color(f.Theme.DeviceOn.Hex())).Render("●")
	legend := fmt.Sprintf(" %s %s  %s", blip, StyleMenuLabel.Render(fmt.Sprintf("%d blips", len(f.Blips))), RenderLegend())
	return StylePanel.Width(width - 2).Height(height - 2).Render(canvas.Render() + "\n" + legend)
}

// RenderLegend describes the device symbols used by the list.
func RenderLegend() string {
	parts := []string{
		TypeStyle(bluetooth.DeviceTypeBLE).Render("* BLE"),
		TypeStyle(bluetooth.DeviceTypeClassic).Render("B Classic"),
		TypeStyle(bluetooth.DeviceTypeWiFi).Render("W WiFi"),
	}
	return strings.Join(parts, "  ")
}
