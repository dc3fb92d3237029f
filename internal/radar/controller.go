package radar

import (
	"log/slog"
	"sync"

	"sweep-radar.klederson.com/internal/audio"
	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/observability"
)

// EventSink receives device membership changes after each merge.
type EventSink interface {
	DeviceAdded(d bluetooth.Device)
	DeviceLost(d bluetooth.Device)
}

// Controller owns the radar state: the sweep, the registry, the theme and
// the blink phase. It is the only entry point the tick loop, the scan loop
// and the key handlers use.
//
// Two locks are involved and never nested: the controller's own mutex for
// sweep, theme and blink, and the registry's mutex, held only while merging
// or copying the sorted view.
type Controller struct {
	cfg      config.Config
	registry *bluetooth.Registry
	builder  *FrameBuilder
	log      *slog.Logger
	cue      audio.Cue
	metrics  *observability.Metrics
	events   EventSink

	mu    sync.Mutex
	sweep *Sweep
	theme int
	blink bool
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = observability.OrNop(l) }
}

// WithCue sets the sound played on every completed revolution.
func WithCue(cue audio.Cue) Option {
	return func(c *Controller) { c.cue = cue }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithEvents(s EventSink) Option {
	return func(c *Controller) { c.events = s }
}

// WithRegistry shares an existing registry instead of creating one.
func WithRegistry(r *bluetooth.Registry) Option {
	return func(c *Controller) { c.registry = r }
}

// NewController initializes the radar from cfg. The sweep starts running at
// angle 0.
func NewController(cfg config.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		builder: NewFrameBuilder(cfg),
		log:     observability.NopLogger(),
		cue:     audio.Nop{},
		sweep:   NewSweep(cfg.SweepSpeed),
		theme:   ((cfg.Theme % ThemeCount()) + ThemeCount()) % ThemeCount(),
		blink:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = bluetooth.NewRegistry()
	}
	c.log = c.log.With("component", "radar")
	return c
}

// Start plays the startup cue.
func (c *Controller) Start() {
	c.cue.PlayOnce()
}

// OnTick advances the sweep by dt ticks, toggles the blink phase and
// returns the frame to draw. A completed revolution triggers the cue.
func (c *Controller) OnTick(dt float64) Frame {
	c.mu.Lock()
	c.blink = !c.blink
	wrapped := c.sweep.Advance(dt)
	state, theme, blink := c.sweep.State(), ThemeAt(c.theme), c.blink
	c.mu.Unlock()

	if wrapped {
		c.cue.PlayOnce()
		c.metrics.ObserveRevolution()
		c.log.Debug("revolution complete", "speed", state.Speed)
	}

	f := c.builder.Build(c.registry.Snapshot(), state, theme, blink)
	f.Revolution = wrapped
	return f
}

// Render draws the current state without advancing anything.
func (c *Controller) Render() Frame {
	c.mu.Lock()
	state, theme, blink := c.sweep.State(), ThemeAt(c.theme), c.blink
	c.mu.Unlock()
	return c.builder.Build(c.registry.Snapshot(), state, theme, blink)
}

// OnScanResult merges a discovery snapshot and reports the changes.
func (c *Controller) OnScanResult(snapshot []bluetooth.Sighting) bluetooth.MergeResult {
	return c.report(c.registry.Merge(snapshot))
}

// OnPartialScanResult merges a snapshot taken while some sources failed.
// Known devices matched by keep are carried forward instead of being lost.
func (c *Controller) OnPartialScanResult(snapshot []bluetooth.Sighting, keep func(bluetooth.Device) bool) bluetooth.MergeResult {
	return c.report(c.registry.MergeKeeping(snapshot, keep))
}

func (c *Controller) report(res bluetooth.MergeResult) bluetooth.MergeResult {
	for _, d := range res.Added {
		c.log.Info("new device", "address", d.Address, "name", d.Name, "rssi", d.RSSI, "type", d.Type.String())
		if c.events != nil {
			c.events.DeviceAdded(d)
		}
	}
	c.reportLost(res.Lost)
	c.metrics.ObserveMerge(len(res.Added), len(res.Lost), len(res.View))
	c.log.Info("scan merged", "devices", len(res.View), "added", len(res.Added), "lost", len(res.Lost))
	return res
}

func (c *Controller) reportLost(lost []bluetooth.Device) {
	for _, d := range lost {
		c.log.Info("device lost", "address", d.Address, "name", d.Name, "rssi", d.RSSI)
		if c.events != nil {
			c.events.DeviceLost(d)
		}
	}
}

func (c *Controller) SetPaused(p bool) {
	c.mu.Lock()
	c.sweep.SetPaused(p)
	c.mu.Unlock()
	c.log.Info("sweep paused", "paused", p)
}

// TogglePause flips the sweep between running and paused.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	p := c.sweep.Toggle()
	c.mu.Unlock()
	c.log.Info("sweep paused", "paused", p)
	return p
}

// SetSpeed sets degrees per tick. Values below MinSpeed are clamped.
func (c *Controller) SetSpeed(v float64) {
	c.mu.Lock()
	c.sweep.SetSpeed(v)
	speed := c.sweep.State().Speed
	c.mu.Unlock()
	c.log.Info("sweep speed", "speed", speed)
}

func (c *Controller) Faster() {
	c.mu.Lock()
	c.sweep.Faster()
	speed := c.sweep.State().Speed
	c.mu.Unlock()
	c.log.Info("sweep speed", "speed", speed)
}

func (c *Controller) Slower() {
	c.mu.Lock()
	c.sweep.Slower()
	speed := c.sweep.State().Speed
	c.mu.Unlock()
	c.log.Info("sweep speed", "speed", speed)
}

// Reset zeroes the sweep angle and empties the registry. Every dropped
// device is reported as lost.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.sweep.Reset()
	c.mu.Unlock()

	lost := c.registry.Clear()
	c.reportLost(lost)
	c.metrics.ObserveMerge(0, len(lost), 0)
	c.log.Info("radar reset", "cleared", len(lost))
}

// CycleTheme switches to the next theme and returns it.
func (c *Controller) CycleTheme() Theme {
	c.mu.Lock()
	c.theme = (c.theme + 1) % ThemeCount()
	t := ThemeAt(c.theme)
	c.mu.Unlock()
	c.log.Info("theme changed", "theme", t.Name)
	return t
}

func (c *Controller) State() SweepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep.State()
}

func (c *Controller) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ThemeAt(c.theme)
}

// Devices returns a copy of the sorted view.
func (c *Controller) Devices() []bluetooth.Device {
	return c.registry.Snapshot()
}

// Registry exposes the underlying registry for counts and inspection.
func (c *Controller) Registry() *bluetooth.Registry {
	return c.registry
}

// Mapper returns the blip placement used by the frame builder.
func (c *Controller) Mapper() Mapper {
	return c.builder.Mapper()
}
