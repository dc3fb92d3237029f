package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/radar"
)

func fixed(s ...bluetooth.Sighting) bluetooth.Discoverer {
	return bluetooth.DiscovererFunc(func(context.Context) ([]bluetooth.Sighting, error) {
		return s, nil
	})
}

func failing(err error) bluetooth.Discoverer {
	return bluetooth.DiscovererFunc(func(context.Context) ([]bluetooth.Sighting, error) {
		return nil, err
	})
}

type inbox struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (b *inbox) send(m tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, m)
}

func (b *inbox) all() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tea.Msg(nil), b.msgs...)
}

func TestScanOnce(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	var box inbox
	loop := NewScanLoop(fixed(
		bluetooth.Sighting{Address: "A", Name: "phone", RSSI: -40},
		bluetooth.Sighting{Address: "B", RSSI: -70},
	), ctrl, time.Second, nil, nil)
	loop.Notify(box.send)

	res, err := loop.ScanOnce(context.Background())
	if err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	if len(res.View) != 2 || ctrl.Registry().Len() != 2 {
		t.Errorf("ScanOnce() merged %d devices, registry has %d, want 2", len(res.View), ctrl.Registry().Len())
	}
	msgs := box.all()
	if len(msgs) != 1 {
		t.Fatalf("notified %d messages, want 1", len(msgs))
	}
	if done, ok := msgs[0].(ScanDoneMsg); !ok || len(done.Result.Added) != 2 || done.Err != nil {
		t.Errorf("message = %#v, want ScanDoneMsg with 2 added", msgs[0])
	}
}

func TestScanOnceFailureKeepsRegistry(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	ctrl.OnScanResult([]bluetooth.Sighting{{Address: "A", RSSI: -40}})

	var box inbox
	boom := errors.New("adapter gone")
	loop := NewScanLoop(failing(boom), ctrl, time.Second, nil, nil)
	loop.Notify(box.send)

	if _, err := loop.ScanOnce(context.Background()); !errors.Is(err, boom) {
		t.Errorf("ScanOnce() error = %v, want %v", err, boom)
	}
	if ctrl.Registry().Len() != 1 {
		t.Errorf("registry len = %d after failed scan, want 1", ctrl.Registry().Len())
	}
	msgs := box.all()
	if len(msgs) != 1 {
		t.Fatalf("notified %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(ScanErrorMsg); !ok {
		t.Errorf("message = %#v, want ScanErrorMsg", msgs[0])
	}
}

func TestScanOncePartialFailureMerges(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	multi := bluetooth.NewMultiDiscoverer()
	multi.Add("ble", fixed(bluetooth.Sighting{Address: "A", RSSI: -40}))
	multi.Add("wifi", failing(errors.New("no interface")))

	var box inbox
	loop := NewScanLoop(multi, ctrl, time.Second, nil, nil)
	loop.Notify(box.send)

	res, err := loop.ScanOnce(context.Background())
	var partial *bluetooth.PartialError
	if !errors.As(err, &partial) {
		t.Errorf("ScanOnce() error = %v, want PartialError", err)
	}
	if len(res.View) != 1 {
		t.Errorf("ScanOnce() view = %d devices, want 1", len(res.View))
	}
	if done, ok := box.all()[0].(ScanDoneMsg); !ok || done.Err == nil {
		t.Errorf("message = %#v, want ScanDoneMsg carrying the partial error", box.all()[0])
	}
}

func TestScanOncePartialFailureKeepsFailedSource(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	ctrl.OnScanResult([]bluetooth.Sighting{
		{Address: "ble1", RSSI: -50, Type: bluetooth.DeviceTypeBLE},
		{Address: "wifi1", Name: "HomeNet", RSSI: -60, Type: bluetooth.DeviceTypeWiFi},
	})

	multi := bluetooth.NewMultiDiscoverer()
	multi.Add("ble", fixed(bluetooth.Sighting{Address: "ble1", RSSI: -45, Type: bluetooth.DeviceTypeBLE}), bluetooth.DeviceTypeBLE)
	multi.Add("wifi", failing(errors.New("nmcli timed out")), bluetooth.DeviceTypeWiFi)
	loop := NewScanLoop(multi, ctrl, time.Second, nil, nil)

	res, err := loop.ScanOnce(context.Background())
	var partial *bluetooth.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("ScanOnce() error = %v, want PartialError", err)
	}
	if len(res.Lost) != 0 {
		t.Errorf("ScanOnce() lost = %v, want none while wifi is failing", res.Lost)
	}
	if _, ok := ctrl.Registry().Known()["wifi1"]; !ok {
		t.Error("wifi1 dropped from the registry after its source failed")
	}
	if n := ctrl.Registry().Len(); n != 2 {
		t.Errorf("Registry().Len() = %d, want 2", n)
	}
	if got := ctrl.Registry().Known()["ble1"].RSSI; got != -45 {
		t.Errorf("ble1 RSSI = %d, want -45 from the surviving source", got)
	}
}

func TestScanOnceCancelled(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	var box inbox
	src := bluetooth.DiscovererFunc(func(ctx context.Context) ([]bluetooth.Sighting, error) {
		return nil, ctx.Err()
	})
	loop := NewScanLoop(src, ctrl, time.Second, nil, nil)
	loop.Notify(box.send)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loop.ScanOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ScanOnce() error = %v, want context.Canceled", err)
	}
	if n := len(box.all()); n != 0 {
		t.Errorf("notified %d messages on shutdown, want 0", n)
	}
}

func TestScanLoopRun(t *testing.T) {
	ctrl := radar.NewController(config.Default())
	var calls atomic.Int32
	src := bluetooth.DiscovererFunc(func(context.Context) ([]bluetooth.Sighting, error) {
		calls.Add(1)
		return []bluetooth.Sighting{{Address: "A", RSSI: -50}}, nil
	})
	loop := NewScanLoop(src, ctrl, time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Run() made %d scans, want at least 3", calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRSSIRing(t *testing.T) {
	r := NewRSSIRing(3)
	if r.Values() != nil || r.Last() != 0 || r.Len() != 0 {
		t.Errorf("empty ring = %v last %v len %d", r.Values(), r.Last(), r.Len())
	}
	for _, v := range []int{-50, -60} {
		r.Push(v)
	}
	if got := r.Values(); len(got) != 2 || got[0] != -50 || got[1] != -60 {
		t.Errorf("Values() = %v, want [-50 -60]", got)
	}
	for _, v := range []int{-70, -80} {
		r.Push(v)
	}
	got := r.Values()
	want := []float64{-60, -70, -80}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values() = %v, want %v", got, want)
			break
		}
	}
	if r.Last() != -80 || r.Len() != 3 {
		t.Errorf("Last() = %v, Len() = %d, want -80, 3", r.Last(), r.Len())
	}
}

func TestHistoryRecord(t *testing.T) {
	h := NewHistory(4)
	h.Record(bluetooth.MergeResult{View: []bluetooth.Device{{Address: "A", RSSI: -40}, {Address: "B", RSSI: -70}}})
	h.Record(bluetooth.MergeResult{
		View: []bluetooth.Device{{Address: "A", RSSI: -45}},
		Lost: []bluetooth.Device{{Address: "B"}},
	})
	if got := h.Values("A"); len(got) != 2 || got[1] != -45 {
		t.Errorf("Values(A) = %v, want [-40 -45]", got)
	}
	if got := h.Values("B"); got != nil {
		t.Errorf("Values(B) = %v, want nil after loss", got)
	}
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len() after Reset() = %d, want 0", h.Len())
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return am
}

func TestAppModelKeys(t *testing.T) {
	cfg := config.Default()
	ctrl := radar.NewController(cfg)
	cancelled := false
	m := New(cfg, ctrl, "demo", func() { cancelled = true })

	m = update(t, m, runes("p"))
	if !ctrl.State().Paused || !m.frame.Sweep.Paused {
		t.Errorf("p did not pause the sweep")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := ctrl.State().Speed; got != cfg.SweepSpeed+1 {
		t.Errorf("speed after right = %v, want %v", got, cfg.SweepSpeed+1)
	}
	m = update(t, m, runes("m"))
	if m.frame.Theme.Name != "blue" {
		t.Errorf("theme after m = %q, want blue", m.frame.Theme.Name)
	}

	res := ctrl.OnScanResult([]bluetooth.Sighting{
		{Address: "A", RSSI: -40},
		{Address: "B", RSSI: -60, Type: bluetooth.DeviceTypeWiFi},
	})
	m = update(t, m, ScanDoneMsg{Result: res})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", m.cursor)
	}
	m = update(t, m, runes("3"))
	if m.cursor != 0 || len(m.visible()) != 1 {
		t.Errorf("wifi filter: cursor %d visible %d, want 0 and 1", m.cursor, len(m.visible()))
	}
	if ctrl.Registry().Len() != 2 {
		t.Errorf("filter changed the registry: len %d", ctrl.Registry().Len())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Errorf("enter did not open the detail panel")
	}
	m = update(t, m, runes("r"))
	if ctrl.Registry().Len() != 0 || len(m.devices) != 0 || m.detail {
		t.Errorf("r did not reset: registry %d devices %d detail %v", ctrl.Registry().Len(), len(m.devices), m.detail)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil || !cancelled {
		t.Errorf("q did not quit and cancel scanning")
	}
}

func TestAppModelSearch(t *testing.T) {
	cfg := config.Default()
	ctrl := radar.NewController(cfg)
	m := New(cfg, ctrl, "demo", nil)
	res := ctrl.OnScanResult([]bluetooth.Sighting{
		{Address: "A", Name: "Pixel", RSSI: -40},
		{Address: "B", Name: "Speaker", RSSI: -60},
	})
	m = update(t, m, ScanDoneMsg{Result: res})

	m = update(t, m, runes("/"))
	for _, k := range []string{"s", "p", "e"} {
		m = update(t, m, runes(k))
	}
	if !m.filter.Active || m.filter.Search != "spe" {
		t.Fatalf("search = %q active %v, want spe active", m.filter.Search, m.filter.Active)
	}
	// Keys typed into the search box must not drive the radar.
	if ctrl.State().Paused {
		t.Errorf("typing into the search box paused the sweep")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filter.Active || m.filter.Search != "sp" {
		t.Errorf("search = %q active %v, want sp inactive", m.filter.Search, m.filter.Active)
	}
	if v := m.visible(); len(v) != 1 || v[0].Address != "B" {
		t.Errorf("visible = %v, want [B]", v)
	}
}

func TestAppModelTickAndView(t *testing.T) {
	cfg := config.Default()
	ctrl := radar.NewController(cfg)
	m := New(cfg, ctrl, "demo", nil)
	if got := m.View(); got != "Initializing "+config.AppName+"..." {
		t.Errorf("View() before size = %q", got)
	}

	m = update(t, m, TickMsg(time.Now()))
	if got := ctrl.State().Angle; got != cfg.SweepSpeed {
		t.Errorf("angle after tick = %v, want %v", got, cfg.SweepSpeed)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, ScanErrorMsg{Err: errors.New("adapter gone")})
	if m.scanErr == nil {
		t.Errorf("scan error not kept")
	}
	if m.View() == "" {
		t.Errorf("View() is empty")
	}
}

func TestAppModelStatusCountsByType(t *testing.T) {
	cfg := config.Default()
	ctrl := radar.NewController(cfg)
	ctrl.OnScanResult([]bluetooth.Sighting{
		{Address: "A", RSSI: -40, Type: bluetooth.DeviceTypeBLE},
		{Address: "B", RSSI: -50, Type: bluetooth.DeviceTypeBLE},
		{Address: "C", RSSI: -60, Type: bluetooth.DeviceTypeWiFi},
	})
	m := New(cfg, ctrl, "demo", nil)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})

	if v := m.View(); !strings.Contains(v, "Devices: 3  BLE: 2  CLS: 0  WiFi: 1") {
		t.Errorf("View() status bar does not show the registry counts:\n%s", v)
	}
}
