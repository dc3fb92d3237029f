package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/radar"
)

// Detail is everything the detail panel shows about one device.
type Detail struct {
	Device  bluetooth.Device
	Bearing float64   // Blip angle on the scope, degrees counter-clockwise from east
	History []float64 // Recent RSSI samples, oldest first
	Theme   radar.Theme
	RSSIMin int
	RSSIMax int
}

// RenderDetailPanel renders the device detail view that replaces the scope.
func RenderDetailPanel(det Detail, width, height int) string {
	innerW := max(width-4, 20)
	d := det.Device

	lines := []string{
		padBetween(StylePanelTitle.Render("DEVICE DETAIL"), StyleHelp.Render("[ESC]"), innerW),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}

	dist := d.Distance(config.MeasuredPower, config.PathLossExp)
	fields := []struct{ label, value string }{
		{"Name", d.Name},
		{"Address", d.Address},
		{"Type", d.Type.String()},
		{"RSSI", fmt.Sprintf("%d dBm", d.RSSI)},
		{"Distance", fmt.Sprintf("~%.1fm", dist)},
		{"Rank", fmt.Sprintf("#%d", d.Rank+1)},
		{"Last", formatLastSeen(d.LastSeen, time.Now())},
	}
	for _, f := range fields {
		lines = append(lines, StyleDeviceMAC.Render(fmt.Sprintf("  %-10s", f.label))+StyleDeviceName.Render(f.value))
	}
	lines = append(lines, "")

	bar := renderSignalBar(d.RSSI, det.RSSIMin, det.RSSIMax, max(innerW-22, 10))
	lines = append(lines, StyleDeviceMAC.Render("  Signal ")+bar)

	if len(det.History) > 0 {
		lines = append(lines,
			"",
			StyleDeviceMAC.Render("  RSSI History:"),
			"  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(det.History, max(innerW-4, 10))),
		)
	}
	lines = append(lines, "")

	compassH := max(height-len(lines)-5, 5)
	compassW := min(innerW, compassH*3)
	pad := spaces((innerW - compassW) / 2)
	for _, l := range strings.Split(RenderCompass(compassW, compassH, det.Bearing, det.Theme), "\n") {
		lines = append(lines, pad+l)
	}

	label := fmt.Sprintf("~%.1fm  %s  %ddBm", dist, radar.CompassPoint(det.Bearing), d.RSSI)
	lines = append(lines, spaces((innerW-len(label))/2)+StyleDeviceName.Render(label))

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderSignalBar fills a bar in proportion to where rssi falls in
// [lo, hi].
func renderSignalBar(rssi, lo, hi, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = float64(rssi-lo) / float64(hi-lo)
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))

	on := lipgloss.NewStyle().Foreground(proximityColor(rssi)).Render(strings.Repeat("|", filled))
	off := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + on + off + StyleHelp.Render("]")
}

// renderSparkline draws the last width values scaled between their min and
// max.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	chars := []byte{'_', '.', '-', '~', '^'}

	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := math.Max(hi-lo, 1)

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		sb.WriteByte(chars[max(0, min(idx, len(chars)-1))])
	}
	return sb.String()
}

func formatLastSeen(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
