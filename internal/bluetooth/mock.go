package bluetooth

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

var demoTemplates = []struct {
	Name string
	Type DeviceType
}{
	{"iPhone 15 Pro", DeviceTypeBLE},
	{"Galaxy S24 Ultra", DeviceTypeBLE},
	{"Pixel 9 Pro", DeviceTypeBLE},
	{"AirPods Pro", DeviceTypeBLE},
	{"Galaxy Buds Pro", DeviceTypeClassic},
	{"MacBook Air", DeviceTypeBLE},
	{"Apple Watch", DeviceTypeBLE},
	{"Fitbit Charge 6", DeviceTypeBLE},
	{"Sony WH-1000XM5", DeviceTypeClassic},
	{"JBL Flip 6", DeviceTypeClassic},
	{"Tile Tracker", DeviceTypeBLE},
	{"Tesla Model 3", DeviceTypeBLE},
	{"Nintendo Switch", DeviceTypeClassic},
	{"iPad Pro", DeviceTypeBLE},
	{"OnePlus Buds 3", DeviceTypeBLE},
	{"HomeNetwork_2G", DeviceTypeWiFi},
	{"XFINITY-7A3F", DeviceTypeWiFi},
	{"TP-Link_5GHz", DeviceTypeWiFi},
	{"AndroidAP", DeviceTypeWiFi},
	{"Starlink_WiFi", DeviceTypeWiFi},
}

type demoDevice struct {
	mac       string
	name      string
	dtype     DeviceType
	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
}

// DemoDiscoverer returns simulated snapshots: a fixed population of devices
// whose signal drifts sinusoidally and which now and then drop out of range
// and come back. Each Discover call advances the simulation one step.
type DemoDiscoverer struct {
	mu      sync.Mutex
	rng     *rand.Rand
	devices []demoDevice
	t       float64

	// ToggleChance is the per-scan probability a device leaves or returns.
	ToggleChance float64
	// BlankNameChance is the per-scan probability a device reports no name.
	BlankNameChance float64
}

// NewDemoDiscoverer builds a population of 12 to 15 devices from seed.
func NewDemoDiscoverer(seed int64) *DemoDiscoverer {
	rng := rand.New(rand.NewSource(seed))

	n := 12 + rng.Intn(4)
	perm := rng.Perm(len(demoTemplates))[:n]

	devices := make([]demoDevice, n)
	for i, ti := range perm {
		tmpl := demoTemplates[ti]
		devices[i] = demoDevice{
			mac:       randomMAC(rng),
			name:      tmpl.Name,
			dtype:     tmpl.Type,
			baseRSSI:  -40 - rng.Float64()*50, // -40 to -90 dBm
			phase:     rng.Float64() * 2 * math.Pi,
			amplitude: 3 + rng.Float64()*8,
			active:    true,
		}
	}

	return &DemoDiscoverer{
		rng:             rng,
		devices:         devices,
		ToggleChance:    0.05,
		BlankNameChance: 0.05,
	}
}

// Population returns the number of simulated devices, in range or not.
func (d *DemoDiscoverer) Population() int {
	return len(d.devices)
}

func (d *DemoDiscoverer) Discover(ctx context.Context) ([]Sighting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.t += 1
	var out []Sighting
	for i := range d.devices {
		dev := &d.devices[i]
		if d.rng.Float64() < d.ToggleChance {
			dev.active = !dev.active
		}
		if !dev.active {
			continue
		}

		rssi := dev.baseRSSI + dev.amplitude*math.Sin(d.t*0.5+dev.phase) + (d.rng.Float64()-0.5)*4
		rssi = max(-100, min(rssi, -30))

		name := dev.name
		if d.rng.Float64() < d.BlankNameChance {
			name = ""
		}
		out = append(out, Sighting{
			Address: dev.mac,
			Name:    name,
			RSSI:    int(math.Round(rssi)),
			Type:    dev.dtype,
		})
	}
	return out, nil
}

func randomMAC(rng *rand.Rand) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}
