package ui

import (
	"fmt"
	"strings"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
)

// FilterState holds the device list filters. The scope always shows every
// device; filters only narrow the list.
type FilterState struct {
	BLE     bool
	Classic bool
	WiFi    bool
	Search  string // Case-insensitive match on name or address
	Active  bool   // Search input has focus
}

// AllTypes returns a filter that lets every device through.
func AllTypes() FilterState {
	return FilterState{BLE: true, Classic: true, WiFi: true}
}

// Match reports whether d passes the filter.
func (f FilterState) Match(d bluetooth.Device) bool {
	switch d.Type {
	case bluetooth.DeviceTypeClassic:
		if !f.Classic {
			return false
		}
	case bluetooth.DeviceTypeWiFi:
		if !f.WiFi {
			return false
		}
	default:
		if !f.BLE {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Address), q)
}

// Apply keeps the devices that pass the filter, preserving order.
func (f FilterState) Apply(devs []bluetooth.Device) []bluetooth.Device {
	out := make([]bluetooth.Device, 0, len(devs))
	for _, d := range devs {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// RenderDeviceList renders the device list panel. devices must already be
// filtered; the cursor indexes into it.
func RenderDeviceList(devices []bluetooth.Device, width, height, cursor int, filter FilterState, rssiMin, rssiMax int) string {
	innerW := max(width-4, 10)
	innerH := max(height-2, 4)

	header := []string{
		StylePanelTitle.Render(fmt.Sprintf("DEVICES [%d]", len(devices))),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		renderFilterBar(filter),
	}
	space := max(innerH-len(header), 1)

	var body []string
	if len(devices) == 0 {
		body = append(body, "", StyleHelp.Render(" No devices..."), StyleHelp.Render(" Waiting for scan"))
	} else {
		const linesPer = 3
		visible := max(space/linesPer, 1)
		start := 0
		if cursor >= visible {
			start = cursor - visible + 1
		}
		for i := start; i < len(devices) && len(body) < space; i++ {
			body = append(body, renderEntry(devices[i], innerW, i == cursor, rssiMin, rssiMax)...)
		}
	}
	if len(body) > space {
		body = body[:space]
	}
	for len(body) < space {
		body = append(body, "")
	}

	content := strings.Join(append(header, body...), "\n")
	return StylePanel.Width(width - 2).Height(innerH).Render(content)
}

func renderEntry(d bluetooth.Device, w int, isCursor bool, rssiMin, rssiMax int) []string {
	name := truncate(d.Name, max(w-6, 4))
	dist := d.Distance(config.MeasuredPower, config.PathLossExp)
	stats := fmt.Sprintf("%ddBm ~%.1fm", d.RSSI, dist)

	if isCursor {
		return []string{
			StyleCursor.Render(fitWidth(fmt.Sprintf(">> %s %s", d.Symbol(), name), w)),
			StyleCursor.Render(fitWidth("   "+d.Address, w)),
			StyleCursor.Render(fitWidth("   "+stats, w)),
		}
	}

	barW := max(w-len(stats)-6, 4)
	return []string{
		"   " + TypeStyle(d.Type).Render(d.Symbol()) + " " + StyleDeviceName.Render(name),
		"   " + StyleDeviceMAC.Render(truncate(d.Address, w-3)),
		"   " + StyleDeviceValue.Render(stats) + " " + renderSignalBar(d.RSSI, rssiMin, rssiMax, barW),
	}
}

func renderFilterBar(f FilterState) string {
	toggle := func(on bool, label string) string {
		if on {
			return StyleFilterOn.Render("[" + label + "]")
		}
		return StyleFilterOff.Render("[" + label + "]")
	}
	bar := " " + toggle(f.BLE, "1:BLE") + " " + toggle(f.Classic, "2:CLS") + " " + toggle(f.WiFi, "3:WiFi")
	switch {
	case f.Active:
		bar += "  " + StyleFilterOn.Render("/"+f.Search+"_")
	case f.Search != "":
		bar += "  " + StyleFilterOff.Render("/"+f.Search)
	}
	return bar
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// fitWidth pads or truncates s to exactly w runes.
func fitWidth(s string, w int) string {
	s = truncate(s, w)
	return s + spaces(w-len([]rune(s)))
}
