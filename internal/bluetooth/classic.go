package bluetooth

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// classicRSSI stands in for signal strength; hcitool inquiry does not report it.
const classicRSSI = -75

// ClassicDiscoverer finds classic Bluetooth devices with an hcitool inquiry.
type ClassicDiscoverer struct {
	timeout time.Duration
}

// NewClassicDiscoverer creates a discoverer whose inquiry is cut off after
// timeout.
func NewClassicDiscoverer(timeout time.Duration) *ClassicDiscoverer {
	return &ClassicDiscoverer{timeout: timeout}
}

func (c *ClassicDiscoverer) Discover(ctx context.Context) ([]Sighting, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "hcitool", "scan", "--flush").Output()
	if err != nil {
		return nil, fmt.Errorf("hcitool scan: %w", err)
	}
	return parseHcitoolScan(string(out)), nil
}

// parseHcitoolScan reads lines of the form "AA:BB:CC:DD:EE:FF\tDevice Name".
func parseHcitoolScan(output string) []Sighting {
	var out []Sighting
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "Scanning") {
			continue
		}
		mac, name, _ := strings.Cut(line, "\t")
		mac = strings.ToUpper(strings.TrimSpace(mac))
		if !isValidMAC(mac) {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "n/a" {
			name = ""
		}
		out = append(out, Sighting{
			Address: mac,
			Name:    name,
			RSSI:    classicRSSI,
			Type:    DeviceTypeClassic,
		})
	}
	return out
}

func isValidMAC(mac string) bool {
	if len(mac) != 17 {
		return false
	}
	for i, c := range mac {
		if (i+1)%3 == 0 {
			if c != ':' {
				return false
			}
			continue
		}
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// ClassicAvailable reports whether hcitool is installed.
func ClassicAvailable() bool {
	_, err := exec.LookPath("hcitool")
	return err == nil
}
