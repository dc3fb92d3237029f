package bluetooth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestParseHcitoolScan(t *testing.T) {
	out := "Scanning ...\n\tAA:BB:CC:DD:EE:FF\tJBL Flip 6\n\t11:22:33:44:55:66\tn/a\n\tnot-a-mac\tjunk\n"
	got := parseHcitoolScan(out)
	want := []Sighting{
		{Address: "AA:BB:CC:DD:EE:FF", Name: "JBL Flip 6", RSSI: classicRSSI, Type: DeviceTypeClassic},
		{Address: "11:22:33:44:55:66", Name: "", RSSI: classicRSSI, Type: DeviceTypeClassic},
	}
	if len(got) != len(want) {
		t.Fatalf("parseHcitoolScan() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sighting %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseNmcliScan(t *testing.T) {
	out := `aa\:bb\:cc\:dd\:ee\:01:Home\:Net:100
AA\:BB\:CC\:DD\:EE\:02::0
AA\:BB\:CC\:DD\:EE\:03:Cafe:
bogus:line
`
	got := parseNmcliScan(out)
	if len(got) != 3 {
		t.Fatalf("parseNmcliScan() returned %d sightings, want 3: %+v", len(got), got)
	}
	tests := []struct {
		addr string
		name string
		rssi int
	}{
		{"AA:BB:CC:DD:EE:01", "Home:Net", -30},
		{"AA:BB:CC:DD:EE:02", "", -100},
		{"AA:BB:CC:DD:EE:03", "Cafe", -80},
	}
	for i, tt := range tests {
		if got[i].Address != tt.addr || got[i].Name != tt.name || got[i].RSSI != tt.rssi || got[i].Type != DeviceTypeWiFi {
			t.Errorf("sighting %d = %+v, want %s %q %d", i, got[i], tt.addr, tt.name, tt.rssi)
		}
	}
}

func TestParseIWScan(t *testing.T) {
	out := `BSS 00:11:22:33:44:55(on wlan0)
	freq: 2437
	signal: -52.00 dBm
	SSID: Office
BSS 66:77:88:99:aa:bb(on wlan0) -- associated
	signal: -71.00 dBm
	SSID: 
`
	got := parseIWScan(out)
	if len(got) != 2 {
		t.Fatalf("parseIWScan() returned %d sightings, want 2", len(got))
	}
	if got[0].Address != "00:11:22:33:44:55" || got[0].Name != "Office" || got[0].RSSI != -52 {
		t.Errorf("first BSS = %+v", got[0])
	}
	if got[1].Address != "66:77:88:99:AA:BB" || got[1].RSSI != -71 {
		t.Errorf("second BSS = %+v", got[1])
	}
}

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"AA:BB:CC:DD:EE:FF", true},
		{"aa:bb:cc:dd:ee:ff", true},
		{"AA-BB-CC-DD-EE-FF", false},
		{"AA:BB:CC:DD:EE", false},
		{"GG:BB:CC:DD:EE:FF", false},
	}
	for _, tt := range tests {
		if got := isValidMAC(tt.mac); got != tt.want {
			t.Errorf("isValidMAC(%q) = %v, want %v", tt.mac, got, tt.want)
		}
	}
}

func TestManufacturerName(t *testing.T) {
	if got := ManufacturerName(0x004C, "aa:bb:cc:dd:ee:ff"); got != "Apple EE:FF" {
		t.Errorf("ManufacturerName(Apple) = %q, want %q", got, "Apple EE:FF")
	}
	if got := ManufacturerName(0xFFFE, "AA:BB:CC:DD:EE:FF"); got != "" {
		t.Errorf("ManufacturerName(unknown) = %q, want empty", got)
	}
}

func TestMultiDiscoverer(t *testing.T) {
	ok := DiscovererFunc(func(ctx context.Context) ([]Sighting, error) {
		return []Sighting{{Address: "A", RSSI: -40}}, nil
	})
	boom := errors.New("adapter gone")
	bad := DiscovererFunc(func(ctx context.Context) ([]Sighting, error) {
		return nil, boom
	})

	t.Run("all ok", func(t *testing.T) {
		m := NewMultiDiscoverer()
		m.Add("one", ok)
		m.Add("two", ok)
		got, err := m.Discover(context.Background())
		if err != nil || len(got) != 2 {
			t.Errorf("Discover() = %v, %v, want 2 sightings and no error", got, err)
		}
	})

	t.Run("partial", func(t *testing.T) {
		m := NewMultiDiscoverer()
		m.Add("ble", ok, DeviceTypeBLE)
		m.Add("wifi", bad, DeviceTypeWiFi)
		got, err := m.Discover(context.Background())
		var pe *PartialError
		if !errors.As(err, &pe) || !errors.Is(err, boom) {
			t.Fatalf("Discover() error = %v, want PartialError wrapping %v", err, boom)
		}
		if len(got) != 1 {
			t.Errorf("Discover() = %v, want the surviving sighting", got)
		}
		if !pe.Covers(Device{Type: DeviceTypeWiFi}) || pe.Covers(Device{Type: DeviceTypeBLE}) {
			t.Errorf("PartialError.Types = %v, want only the failed wifi source", pe.Types)
		}
	})

	t.Run("partial untyped", func(t *testing.T) {
		m := NewMultiDiscoverer()
		m.Add("ble", ok, DeviceTypeBLE)
		m.Add("other", bad)
		_, err := m.Discover(context.Background())
		var pe *PartialError
		if !errors.As(err, &pe) {
			t.Fatalf("Discover() error = %v, want PartialError", err)
		}
		if !pe.Covers(Device{Type: DeviceTypeBLE}) {
			t.Error("Covers() = false for an untyped failed source, want true")
		}
	})

	t.Run("all fail", func(t *testing.T) {
		m := NewMultiDiscoverer()
		m.Add("wifi", bad)
		got, err := m.Discover(context.Background())
		var pe *PartialError
		if err == nil || errors.As(err, &pe) || got != nil {
			t.Errorf("Discover() = %v, %v, want nil and a total failure", got, err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := NewMultiDiscoverer().Discover(context.Background()); err == nil {
			t.Error("Discover() with no sources succeeded, want error")
		}
	})
}

func TestDemoDiscoverer(t *testing.T) {
	d := NewDemoDiscoverer(42)
	if n := d.Population(); n < 12 || n > 15 {
		t.Fatalf("Population() = %d, want 12..15", n)
	}

	d.ToggleChance = 0
	d.BlankNameChance = 0
	got, err := d.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != d.Population() {
		t.Errorf("Discover() returned %d, want full population %d", len(got), d.Population())
	}
	seen := make(map[string]bool)
	for _, s := range got {
		if s.RSSI < -100 || s.RSSI > -30 {
			t.Errorf("%s RSSI %d outside -100..-30", s.Address, s.RSSI)
		}
		if s.Name == "" {
			t.Errorf("%s has no name with BlankNameChance 0", s.Address)
		}
		if seen[s.Address] {
			t.Errorf("duplicate address %s", s.Address)
		}
		seen[s.Address] = true
	}

	d.ToggleChance = 1
	gone, _ := d.Discover(context.Background())
	if len(gone) != 0 {
		t.Errorf("after toggling everyone out, Discover() = %d sightings, want 0", len(gone))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Discover(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Discover(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestDemoDiscovererDeterministic(t *testing.T) {
	a, _ := NewDemoDiscoverer(9).Discover(context.Background())
	b, _ := NewDemoDiscoverer(9).Discover(context.Background())
	if len(a) != len(b) {
		t.Fatalf("same seed gave %d and %d sightings", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("sighting %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNameResolver(t *testing.T) {
	r := NewNameResolver()
	r.pause = 0

	var mu sync.Mutex
	calls := 0
	r.query = func(ctx context.Context, mac string) string {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if mac == "AA:BB:CC:DD:EE:FF" {
			return "Speaker"
		}
		return ""
	}

	r.RequestResolve("AA:BB:CC:DD:EE:FF")
	r.RequestResolve("11:22:33:44:55:66")
	deadline := time.Now().Add(2 * time.Second)
	for {
		if name, ok := r.Lookup("AA:BB:CC:DD:EE:FF"); ok {
			if name != "Speaker" {
				t.Errorf("Lookup() = %q, want Speaker", name)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("name never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Resolved addresses are not queried again; failures give up after maxAttempts.
	r.RequestResolve("AA:BB:CC:DD:EE:FF")
	for i := 0; i < 5; i++ {
		r.RequestResolve("11:22:33:44:55:66")
	}
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	if calls > 1+maxAttempts {
		t.Errorf("query called %d times, want at most %d", calls, 1+maxAttempts)
	}
	if _, ok := r.Lookup("11:22:33:44:55:66"); ok {
		t.Error("unresolvable address has a cached name")
	}
}
