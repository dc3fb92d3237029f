package bluetooth

import "strings"

// ManufacturerName names an anonymous advertiser after its company and the
// last two octets of its address, e.g. "Apple EE:FF". It returns "" when the
// company is unknown or the address malformed.
func ManufacturerName(companyID uint16, mac string) string {
	mfr, ok := companyNames[companyID]
	if !ok || !isValidMAC(mac) {
		return ""
	}
	return mfr + " " + strings.ToUpper(mac[12:])
}

// Vendors that commonly advertise without a local name, by Bluetooth SIG
// company ID (https://www.bluetooth.com/specifications/assigned-numbers/).
var companyNames = map[uint16]string{
	0x0006: "Microsoft",
	0x004C: "Apple",
	0x0059: "Nordic",
	0x0075: "Samsung",
	0x0087: "Bose",
	0x00E0: "Google",
	0x012D: "Sony",
	0x015D: "Espressif",
	0x0171: "Amazon",
	0x0246: "Logitech",
	0x02FF: "Tile",
	0x0310: "Xiaomi",
	0x038F: "Garmin",
	0x03DA: "Fitbit",
	0x0499: "Ruuvi",
}
