package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/radar"
	"sweep-radar.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	history *History
	cancel  context.CancelFunc
}

// AppModel is the root Bubble Tea model. It forwards ticks and keys to the
// radar controller and renders the latest frame.
type AppModel struct {
	width  int
	height int

	cfg    config.Config
	ctrl   *radar.Controller
	source string

	frame   radar.Frame
	devices []bluetooth.Device // Sorted view from the latest merge
	scanErr error

	cursor int
	filter ui.FilterState
	detail bool

	shared *shared
}

// New creates the model. cancel stops background scanning on quit and may
// be nil.
func New(cfg config.Config, ctrl *radar.Controller, source string, cancel context.CancelFunc) AppModel {
	return AppModel{
		cfg:     cfg,
		ctrl:    ctrl,
		source:  source,
		frame:   ctrl.Render(),
		devices: ctrl.Devices(),
		filter:  ui.AllTypes(),
		shared: &shared{
			history: NewHistory(config.HistoryLen),
			cancel:  cancel,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd(m.cfg.TickInterval())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.frame = m.ctrl.OnTick(1)
		return m, tickCmd(m.cfg.TickInterval())

	case ScanDoneMsg:
		m.devices = msg.Result.View
		m.scanErr = msg.Err
		m.shared.history.Record(msg.Result)
		m.clampCursor()
		return m, nil

	case ScanErrorMsg:
		m.scanErr = msg.Err
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Active {
		return m.handleSearchKey(msg), nil
	}

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.shared.cancel != nil {
			m.shared.cancel()
		}
		return m, tea.Quit

	case " ", "p", "P":
		m.ctrl.TogglePause()
		m.frame = m.ctrl.Render()

	case "left", "-":
		m.ctrl.Slower()
		m.frame = m.ctrl.Render()

	case "right", "+":
		m.ctrl.Faster()
		m.frame = m.ctrl.Render()

	case "m", "M":
		m.ctrl.CycleTheme()
		m.frame = m.ctrl.Render()

	case "r", "R":
		m.ctrl.Reset()
		m.devices = nil
		m.cursor = 0
		m.detail = false
		m.shared.history.Reset()
		m.frame = m.ctrl.Render()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		m.cursor++
		m.clampCursor()

	case "1":
		m.filter.BLE = !m.filter.BLE
		m.clampCursor()
	case "2":
		m.filter.Classic = !m.filter.Classic
		m.clampCursor()
	case "3":
		m.filter.WiFi = !m.filter.WiFi
		m.clampCursor()

	case "/":
		m.filter.Active = true

	case "enter":
		m.detail = len(m.visible()) > 0

	case "esc":
		m.detail = false
	}

	return m, nil
}

func (m AppModel) handleSearchKey(msg tea.KeyMsg) AppModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filter.Active = false
	case tea.KeyBackspace:
		if r := []rune(m.filter.Search); len(r) > 0 {
			m.filter.Search = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter.Search += string(msg.Runes)
	}
	m.clampCursor()
	return m
}

func (m AppModel) visible() []bluetooth.Device {
	return m.filter.Apply(m.devices)
}

func (m *AppModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n == 0 {
		m.detail = false
	}
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	bodyH := max(m.height-2, 5)
	mainW, listW := ui.SplitWidth(m.width)
	visible := m.visible()

	var main string
	if m.detail && m.cursor < len(visible) {
		d := visible[m.cursor]
		main = ui.RenderDetailPanel(ui.Detail{
			Device:  d,
			Bearing: m.ctrl.Mapper().Angle(d.Rank),
			History: m.shared.history.Values(d.Address),
			Theme:   m.frame.Theme,
			RSSIMin: m.cfg.RSSIMin,
			RSSIMax: m.cfg.RSSIMax,
		}, mainW, bodyH)
	} else {
		main = ui.RenderRadarPanel(mainW, bodyH, m.cfg.Radius, m.frame)
	}
	list := ui.RenderDeviceList(visible, listW, bodyH, m.cursor, m.filter, m.cfg.RSSIMin, m.cfg.RSSIMax)

	status := ui.Status{
		Sweep:   m.frame.Sweep,
		Theme:   m.frame.Theme.Name,
		ScanErr: m.scanErr,
	}
	status.BLE, status.Classic, status.WiFi = m.ctrl.Registry().CountByType()
	status.Total = status.BLE + status.Classic + status.WiFi

	return ui.ComposeLayout(
		ui.RenderMenuBar(m.width, m.source, m.frame.Sweep.Paused),
		main,
		list,
		ui.RenderStatusBar(m.width, status),
	)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
