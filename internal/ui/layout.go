package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the radar (or detail) panel and the device list
// horizontally, with the menu bar on top and the status bar at the bottom.
func ComposeLayout(menuBar, mainPanel, deviceList, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, deviceList)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// SplitWidth divides the terminal between the main panel and the device
// list, three quarters to the radar.
func SplitWidth(width int) (mainW, listW int) {
	mainW = max(width*3/4, 30)
	listW = width - mainW
	if listW < 15 {
		listW = 15
		mainW = width - listW
	}
	return mainW, listW
}
