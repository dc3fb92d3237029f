package ui

import (
	"fmt"

	"sweep-radar.klederson.com/internal/radar"
)

// Status is what the bottom bar reports.
type Status struct {
	Sweep   radar.SweepState
	Theme   string
	Total   int
	BLE     int
	Classic int
	WiFi    int
	ScanErr error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	state := StyleRunning.Render("[SWEEP]")
	if s.Sweep.Paused {
		state = StylePaused.Render("[PAUSED]")
	}

	info := fmt.Sprintf(" Devices: %d  BLE: %d  CLS: %d  WiFi: %d  Sweep: %3ddeg  Speed: %.0f/tick  Theme: %s",
		s.Total, s.BLE, s.Classic, s.WiFi, int(s.Sweep.Angle), s.Sweep.Speed, s.Theme)
	content := state + StyleMenuLabel.Render(info)

	right := ""
	if s.ScanErr != nil {
		right = StyleError.Render("scan failed: " + s.ScanErr.Error())
	}
	return StyleBar.Width(width).Render(padBetween(content, right, width-2))
}
