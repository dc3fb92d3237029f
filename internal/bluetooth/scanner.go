package bluetooth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// BLEDiscoverer listens for Bluetooth Low Energy advertisements for a fixed
// window and returns everything heard as one snapshot.
type BLEDiscoverer struct {
	adapter  *bluetooth.Adapter
	window   time.Duration
	resolver *NameResolver

	mu      sync.Mutex // serialises scan windows; the adapter runs one scan at a time
	enabled bool
}

// NewBLEDiscoverer creates a discoverer on the default adapter. resolver may
// be nil.
func NewBLEDiscoverer(window time.Duration, resolver *NameResolver) *BLEDiscoverer {
	return &BLEDiscoverer{
		adapter:  bluetooth.DefaultAdapter,
		window:   window,
		resolver: resolver,
	}
}

// Enable powers up the adapter. It is called lazily by Discover, but calling
// it at startup surfaces permission problems early.
func (s *BLEDiscoverer) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enable()
}

func (s *BLEDiscoverer) enable() error {
	if s.enabled {
		return nil
	}
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}
	s.enabled = true
	return nil
}

func (s *BLEDiscoverer) Discover(ctx context.Context) ([]Sighting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enable(); err != nil {
		return nil, err
	}

	// Scan blocks until StopScan; stop it when the window closes or the
	// caller gives up, whichever comes first.
	wctx, cancel := context.WithTimeout(ctx, s.window)
	defer cancel()
	go func() {
		<-wctx.Done()
		_ = s.adapter.StopScan()
	}()

	var (
		resMu sync.Mutex
		found = make(map[string]Sighting)
		order []string
	)
	err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		mac := result.Address.String()
		name := result.LocalName()

		if name == "" {
			if mfrs := result.ManufacturerData(); len(mfrs) > 0 {
				name = ManufacturerName(mfrs[0].CompanyID, mac)
			}
		}

		resMu.Lock()
		defer resMu.Unlock()
		if _, ok := found[mac]; !ok {
			order = append(order, mac)
		}
		prev := found[mac]
		if name == "" {
			name = prev.Name
		}
		found[mac] = Sighting{
			Address: mac,
			Name:    name,
			RSSI:    int(result.RSSI),
			Type:    DeviceTypeBLE,
		}
	})
	if err != nil && wctx.Err() == nil {
		return nil, fmt.Errorf("ble scan: %w", err)
	}

	resMu.Lock()
	defer resMu.Unlock()
	out := make([]Sighting, 0, len(order))
	for _, mac := range order {
		sg := found[mac]
		if sg.Name == "" && s.resolver != nil {
			if name, ok := s.resolver.Lookup(mac); ok {
				sg.Name = name
			} else {
				s.resolver.RequestResolve(mac)
			}
		}
		out = append(out, sg)
	}
	return out, nil
}
