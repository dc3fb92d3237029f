package ui

import (
	"fmt"

	"sweep-radar.klederson.com/internal/config"
)

// RenderMenuBar renders the top bar with the key bindings and the source
// of devices.
func RenderMenuBar(width int, source string, paused bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"SPC", "pause"},
		{"←→", "speed"},
		{"M", "theme"},
		{"R", "reset"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleRunning.Render("SWEEPING")
	if paused {
		status = StylePaused.Render("PAUSED")
	}

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + StyleMenuLabel.Render("Source: "+source) + " "

	return StyleBar.Width(width).Render(padBetween(left, right, width-2))
}
