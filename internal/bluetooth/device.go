package bluetooth

import (
	"math"
	"time"
)

// UnknownName labels devices that advertised no name.
const UnknownName = "Unknown Device"

// DeviceType distinguishes BLE from Classic Bluetooth and WiFi.
type DeviceType int

const (
	DeviceTypeBLE DeviceType = iota
	DeviceTypeClassic
	DeviceTypeWiFi
)

func (dt DeviceType) String() string {
	switch dt {
	case DeviceTypeClassic:
		return "Classic"
	case DeviceTypeWiFi:
		return "WiFi"
	default:
		return "BLE"
	}
}

// Sighting is one entry of a discovery snapshot. An empty Name means the
// device did not report one.
type Sighting struct {
	Address string
	Name    string
	RSSI    int
	Type    DeviceType
}

// Device is a known device as held by the Registry.
type Device struct {
	Address   string
	Name      string
	RSSI      int // dBm
	Type      DeviceType
	Rank      int       // Index in the latest sorted view
	FirstSeen uint64    // Registry-local creation sequence, used for tie-breaking
	LastSeen  time.Time // Time of the merge that last refreshed the device
}

// Symbol returns the list character for this device type.
func (d Device) Symbol() string {
	switch d.Type {
	case DeviceTypeClassic:
		return "B"
	case DeviceTypeWiFi:
		return "W"
	default:
		return "*"
	}
}

// Label returns the blip caption: the name cut to eight characters.
func (d Device) Label() string {
	name := []rune(d.Name)
	if len(name) > 8 {
		name = name[:8]
	}
	return string(name)
}

// Distance estimates meters from RSSI for display only; blip placement does
// not use it.
func (d Device) Distance(measuredPower, pathLossExp float64) float64 {
	return RSSIToDistance(float64(d.RSSI), measuredPower, pathLossExp)
}

// RSSIToDistance estimates distance from RSSI using the log-distance path loss model.
// Formula: d = 10^((measuredPower - rssi) / (10 * n))
func RSSIToDistance(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return 0.1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.1 {
		return 0.1
	}
	return d
}
