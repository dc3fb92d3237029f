package bluetooth

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// WiFiDiscoverer lists nearby access points. It prefers nmcli, which needs no
// root, and falls back to iw.
type WiFiDiscoverer struct {
	iface    string
	timeout  time.Duration
	useNmcli bool
}

// NewWiFiDiscoverer creates a WiFi discoverer. An empty iface is
// auto-detected when iw is used.
func NewWiFiDiscoverer(iface string, timeout time.Duration) *WiFiDiscoverer {
	useNmcli := nmcliAvailable()
	if iface == "" && !useNmcli {
		iface = detectWiFiInterface()
	}
	return &WiFiDiscoverer{
		iface:    iface,
		timeout:  timeout,
		useNmcli: useNmcli,
	}
}

func (w *WiFiDiscoverer) Discover(ctx context.Context) ([]Sighting, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if w.useNmcli {
		// Cached results; NetworkManager rescans on its own and forcing a
		// rescan empties the list for a moment.
		out, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "BSSID,SSID,SIGNAL", "dev", "wifi", "list").Output()
		if err != nil {
			return nil, fmt.Errorf("nmcli: %w", err)
		}
		return parseNmcliScan(string(out)), nil
	}

	out, err := exec.CommandContext(ctx, "iw", "dev", w.iface, "scan").Output()
	if err != nil {
		return nil, fmt.Errorf("iw scan on %s: %w", w.iface, err)
	}
	return parseIWScan(string(out)), nil
}

// parseNmcliScan parses terse lines BSSID:SSID:SIGNAL where literal colons
// are escaped as \:.
func parseNmcliScan(output string) []Sighting {
	var out []Sighting

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		const placeholder = "\x00"
		parts := strings.Split(strings.ReplaceAll(line, `\:`, placeholder), ":")
		if len(parts) < 3 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(parts[i], placeholder, ":"))
		}

		mac := strings.ToUpper(parts[0])
		if !isValidMAC(mac) {
			continue
		}

		rssi := -80
		if signal, err := strconv.Atoi(parts[2]); err == nil {
			rssi = signalToRSSI(signal)
		}
		out = append(out, Sighting{
			Address: mac,
			Name:    parts[1],
			RSSI:    rssi,
			Type:    DeviceTypeWiFi,
		})
	}
	return out
}

// signalToRSSI maps nmcli's 0-100 quality onto -100..-30 dBm.
func signalToRSSI(signal int) int {
	signal = max(0, min(signal, 100))
	return -100 + signal*70/100
}

// parseIWScan parses the BSS blocks printed by `iw dev <iface> scan`.
func parseIWScan(output string) []Sighting {
	var out []Sighting
	var current *Sighting

	flush := func() {
		if current != nil && isValidMAC(current.Address) {
			out = append(out, *current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		// "BSS aa:bb:cc:dd:ee:ff(on wlan0)"
		if rest, ok := strings.CutPrefix(line, "BSS "); ok {
			flush()
			mac, _, _ := strings.Cut(rest, "(")
			current = &Sighting{
				Address: strings.ToUpper(strings.TrimSpace(mac)),
				RSSI:    -80,
				Type:    DeviceTypeWiFi,
			}
			continue
		}
		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if ssid, ok := strings.CutPrefix(trimmed, "SSID: "); ok {
			current.Name = ssid
		} else if sig, ok := strings.CutPrefix(trimmed, "signal: "); ok {
			sig = strings.TrimSpace(strings.TrimSuffix(sig, " dBm"))
			if v, err := strconv.ParseFloat(sig, 64); err == nil {
				current.RSSI = int(v)
			}
		}
	}
	flush()
	return out
}

// WiFiAvailable reports whether nmcli or iw is installed.
func WiFiAvailable() bool {
	return nmcliAvailable() || iwAvailable()
}

func nmcliAvailable() bool {
	_, err := exec.LookPath("nmcli")
	return err == nil
}

func iwAvailable() bool {
	_, err := exec.LookPath("iw")
	return err == nil
}

// detectWiFiInterface returns the first interface listed by `iw dev`.
func detectWiFiInterface() string {
	out, err := exec.Command("iw", "dev").Output()
	if err != nil {
		return "wlan0"
	}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "Interface "); ok {
			return name
		}
	}
	return "wlan0"
}
