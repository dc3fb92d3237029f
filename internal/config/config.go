package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// Terminal display
	AspectRatio = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)

	// Device list / detail panel
	MeasuredPower  = -59.0 // RSSI at 1 meter (dBm)
	PathLossExp    = 2.5   // Path loss exponent (N)
	HistoryLen     = 64    // RSSI samples kept per device for the sparkline
	ClassicScanSec = 8     // hcitool scan duration in seconds

	// App
	AppName    = "SWEEP-RADAR"
	AppVersion = "1.0"
	EnvPrefix  = "SWEEP_RADAR_"
)

// Config is the radar configuration surface. Zero values are not usable;
// start from Default.
type Config struct {
	Radius       int     // Outer ring radius in pixels
	SweepSpeed   float64 // Degrees per tick
	Rings        int     // Concentric rings, outer one included
	SpokeStepDeg int     // Angle between radial spokes
	RSSIMin      int     // Weakest signal shown on the strength scale (dBm)
	RSSIMax      int     // Strongest signal shown on the strength scale (dBm)
	RankStepDeg  float64 // Angular spacing between blips by list rank
	MaxBlips     int     // Devices drawn on the scope
	BlipSize     int     // Blip point size in pixels
	Volumetric   bool    // Draw spokes and sweep with the 3D line variant
	Heatmap      bool    // Overlay blip density
	HeatmapCell  int     // Heatmap bin size in pixels
	Theme        int     // Initial color theme index
	TickRate     int     // Render ticks per second

	ScanInterval time.Duration // Pause between discovery runs
	ScanWindow   time.Duration // BLE listening time per discovery run
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Radius:       200,
		SweepSpeed:   2.0,
		Rings:        4,
		SpokeStepDeg: 45,
		RSSIMin:      -100,
		RSSIMax:      -30,
		RankStepDeg:  45,
		MaxBlips:     20,
		BlipSize:     8,
		HeatmapCell:  50,
		TickRate:     60,
		ScanInterval: 5 * time.Second,
		ScanWindow:   4 * time.Second,
	}
}

// Validate reports every invalid field. A sweep speed below the minimum is
// not an error; the sweep clamps it.
func (c Config) Validate() error {
	var errs []error
	if c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %d", c.Radius))
	}
	if c.Rings < 1 {
		errs = append(errs, fmt.Errorf("rings must be at least 1, got %d", c.Rings))
	}
	if c.SpokeStepDeg <= 0 || c.SpokeStepDeg > 360 {
		errs = append(errs, fmt.Errorf("spoke step must be in (0, 360], got %d", c.SpokeStepDeg))
	}
	if c.RSSIMin >= c.RSSIMax {
		errs = append(errs, fmt.Errorf("rssi range min %d must be below max %d", c.RSSIMin, c.RSSIMax))
	}
	if c.MaxBlips < 0 {
		errs = append(errs, fmt.Errorf("max blips must not be negative, got %d", c.MaxBlips))
	}
	if c.BlipSize < 1 {
		errs = append(errs, fmt.Errorf("blip size must be at least 1, got %d", c.BlipSize))
	}
	if c.Heatmap && c.HeatmapCell <= 0 {
		errs = append(errs, fmt.Errorf("heatmap cell must be positive, got %d", c.HeatmapCell))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %d", c.TickRate))
	}
	if c.ScanInterval < 0 {
		errs = append(errs, fmt.Errorf("scan interval must not be negative, got %s", c.ScanInterval))
	}
	if c.ScanWindow <= 0 {
		errs = append(errs, fmt.Errorf("scan window must be positive, got %s", c.ScanWindow))
	}
	return errors.Join(errs...)
}

// TickInterval is the time between render ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// ApplyEnv overrides fields from SWEEP_RADAR_* environment variables.
// Unparseable values are reported and leave the field unchanged.
func (c *Config) ApplyEnv() error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := getEnv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := getEnv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := getEnv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	setInt("RADIUS", &c.Radius)
	setFloat("SPEED", &c.SweepSpeed)
	setInt("RINGS", &c.Rings)
	setInt("SPOKE_STEP", &c.SpokeStepDeg)
	setInt("RSSI_MIN", &c.RSSIMin)
	setInt("RSSI_MAX", &c.RSSIMax)
	setFloat("RANK_STEP", &c.RankStepDeg)
	setInt("MAX_BLIPS", &c.MaxBlips)
	setInt("THEME", &c.Theme)
	setInt("FPS", &c.TickRate)
	setDuration("SCAN_INTERVAL", &c.ScanInterval)
	setDuration("SCAN_WINDOW", &c.ScanWindow)
	return errors.Join(errs...)
}

func getEnv(key string) string {
	return os.Getenv(EnvPrefix + key)
}
