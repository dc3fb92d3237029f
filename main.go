package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"sweep-radar.klederson.com/internal/app"
	"sweep-radar.klederson.com/internal/audio"
	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/config"
	"sweep-radar.klederson.com/internal/observability"
	"sweep-radar.klederson.com/internal/radar"
	"sweep-radar.klederson.com/internal/store"
)

var (
	cfg    = config.Default()
	envErr error

	flagDemo         bool
	flagAdapter      string
	flagTheme        string
	flagBeep         string
	flagMute         bool
	flagLogFile      string
	flagVerbose      bool
	flagMetricsAddr  string
	flagRedisAddr    string
	flagRedisChannel string
	flagWiFi         bool
	flagWiFiIface    string
	flagClassic      bool
)

func main() {
	// Environment first so command-line flags win.
	envErr = cfg.ApplyEnv()

	rootCmd := &cobra.Command{
		Use:   "sweep-radar",
		Short: "SWEEP-RADAR - rotating radar display of nearby Bluetooth and WiFi devices",
		Long: `SWEEP-RADAR scans for Bluetooth Low Energy, classic Bluetooth and WiFi
devices and plots them on a rotating radar scope: the strongest signals sit
closest to the center, and a sweep line circles the scope with a beep on
every revolution.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagDemo, "demo", false, "Run in demo mode with fake devices (no Bluetooth required)")
	pf.StringVar(&flagAdapter, "adapter", "hci0", "Bluetooth adapter name shown in the menu bar")
	pf.IntVar(&cfg.Radius, "radius", cfg.Radius, "Outer ring radius in pixels")
	pf.Float64Var(&cfg.SweepSpeed, "speed", cfg.SweepSpeed, "Sweep speed in degrees per tick (minimum 1)")
	pf.IntVar(&cfg.Rings, "rings", cfg.Rings, "Number of range rings")
	pf.IntVar(&cfg.SpokeStepDeg, "spoke-step", cfg.SpokeStepDeg, "Degrees between radial spokes")
	pf.IntVar(&cfg.RSSIMin, "rssi-min", cfg.RSSIMin, "Weakest RSSI on the signal scale (dBm)")
	pf.IntVar(&cfg.RSSIMax, "rssi-max", cfg.RSSIMax, "Strongest RSSI on the signal scale (dBm)")
	pf.Float64Var(&cfg.RankStepDeg, "rank-step", cfg.RankStepDeg, "Degrees between blips by list rank")
	pf.IntVar(&cfg.MaxBlips, "max-blips", cfg.MaxBlips, "Maximum devices drawn on the scope")
	pf.BoolVar(&cfg.Volumetric, "3d", cfg.Volumetric, "Draw spokes and sweep with the 3D line variant")
	pf.BoolVar(&cfg.Heatmap, "heatmap", cfg.Heatmap, "Overlay blip density")
	pf.IntVar(&cfg.TickRate, "fps", cfg.TickRate, "Sweep ticks per second")
	pf.DurationVar(&cfg.ScanInterval, "scan-interval", cfg.ScanInterval, "Pause between discovery runs")
	pf.DurationVar(&cfg.ScanWindow, "scan-window", cfg.ScanWindow, "BLE listening time per discovery run")
	pf.StringVar(&flagTheme, "theme", "", "Initial theme: green, blue or orange")
	pf.StringVar(&flagBeep, "beep", "", "WAV file played on every revolution (default: synthesized tone)")
	pf.BoolVar(&flagMute, "mute", false, "Disable the revolution beep")
	pf.StringVar(&flagLogFile, "log-file", "", "Write JSON logs to this file")
	pf.BoolVar(&flagVerbose, "verbose", false, "Log at debug level")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	pf.StringVar(&flagRedisAddr, "redis-addr", "", "Publish device events to Redis at this address")
	pf.StringVar(&flagRedisChannel, "redis-channel", store.DefaultChannel, "Redis channel for device events")
	pf.BoolVar(&flagWiFi, "wifi", true, "Also scan WiFi access points when nmcli or iw is available")
	pf.StringVar(&flagWiFiIface, "wifi-iface", "", "WiFi interface for iw scans (default: auto-detect)")
	pf.BoolVar(&flagClassic, "classic", true, "Also scan classic Bluetooth when hcitool is available")

	rootCmd.AddCommand(newSnapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig finishes the configuration once flags are parsed.
func loadConfig() error {
	if envErr != nil {
		return envErr
	}
	if flagTheme != "" {
		i, ok := radar.ThemeIndex(flagTheme)
		if !ok {
			return fmt.Errorf("unknown theme %q", flagTheme)
		}
		cfg.Theme = i
	}
	return cfg.Validate()
}

func newLogger() (*slog.Logger, func(), error) {
	if flagLogFile == "" {
		return observability.NopLogger(), func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return observability.NewLogger(f, level), func() { _ = f.Close() }, nil
}

// newDiscoverer assembles the device sources. The returned cleanup stops
// background name resolution.
func newDiscoverer(log *slog.Logger) (bluetooth.Discoverer, string, func(), error) {
	if flagDemo {
		return bluetooth.NewDemoDiscoverer(time.Now().UnixNano()), "demo", func() {}, nil
	}

	resolver := bluetooth.NewNameResolver()
	ble := bluetooth.NewBLEDiscoverer(cfg.ScanWindow, resolver)
	if err := ble.Enable(); err != nil {
		resolver.Stop()
		return nil, "", nil, err
	}

	multi := bluetooth.NewMultiDiscoverer()
	multi.Add("ble", ble, bluetooth.DeviceTypeBLE)
	if flagClassic && bluetooth.ClassicAvailable() {
		multi.Add("classic", bluetooth.NewClassicDiscoverer(time.Duration(config.ClassicScanSec)*time.Second), bluetooth.DeviceTypeClassic)
	}
	if flagWiFi && bluetooth.WiFiAvailable() {
		multi.Add("wifi", bluetooth.NewWiFiDiscoverer(flagWiFiIface, cfg.ScanWindow+5*time.Second), bluetooth.DeviceTypeWiFi)
	}
	log.Info("discovery sources ready", "sources", multi.Len(), "adapter", flagAdapter)
	return multi, flagAdapter, resolver.Stop, nil
}

func permissionHelp(err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
	fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
	fmt.Fprintln(os.Stderr, "Try one of:")
	fmt.Fprintln(os.Stderr, "  sudo ./sweep-radar")
	fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./sweep-radar")
	fmt.Fprintln(os.Stderr, "  ./sweep-radar --demo    (demo mode, no hardware needed)")
}

func run(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	log, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	if flagMetricsAddr != "" {
		go func() {
			if err := observability.StartMetricsServer(ctx, flagMetricsAddr, reg); err != nil {
				log.Error("metrics server stopped", "addr", flagMetricsAddr, "error", err)
			}
		}()
	}

	opts := []radar.Option{radar.WithLogger(log), radar.WithMetrics(metrics)}
	if flagRedisAddr != "" {
		pub, err := store.Dial(ctx, flagRedisAddr, flagRedisChannel, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, radar.WithEvents(pub))
	}
	if !flagMute {
		opts = append(opts, radar.WithCue(audio.NewBeeper(flagBeep, log)))
	}

	source, label, stop, err := newDiscoverer(log)
	if err != nil {
		permissionHelp(err)
		return err
	}
	defer stop()

	ctrl := radar.NewController(cfg, opts...)
	model := app.New(cfg, ctrl, label, cancel)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(cfg.TickRate),
	)

	loop := app.NewScanLoop(source, ctrl, cfg.ScanInterval, log, metrics)
	loop.Notify(p.Send)
	go loop.Run(ctx)

	log.Info("radar started", "speed", cfg.SweepSpeed, "radius", cfg.Radius, "source", label)
	ctrl.Start()

	_, err = p.Run()
	cancel()
	return err
}
