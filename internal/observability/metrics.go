package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the radar's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Scans        prometheus.Counter
	ScanErrors   prometheus.Counter
	DevicesNew   prometheus.Counter
	DevicesLost  prometheus.Counter
	Revolutions  prometheus.Counter
	Tracked      prometheus.Gauge
	ScanDuration prometheus.Histogram
}

// NewMetrics registers the instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scans: f.NewCounter(prometheus.CounterOpts{
			Name: "sweep_radar_scans_total",
			Help: "Discovery snapshots merged into the registry",
		}),
		ScanErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "sweep_radar_scan_errors_total",
			Help: "Discovery runs that failed",
		}),
		DevicesNew: f.NewCounter(prometheus.CounterOpts{
			Name: "sweep_radar_devices_new_total",
			Help: "Devices seen for the first time",
		}),
		DevicesLost: f.NewCounter(prometheus.CounterOpts{
			Name: "sweep_radar_devices_lost_total",
			Help: "Devices dropped because a snapshot omitted them",
		}),
		Revolutions: f.NewCounter(prometheus.CounterOpts{
			Name: "sweep_radar_revolutions_total",
			Help: "Completed sweep revolutions",
		}),
		Tracked: f.NewGauge(prometheus.GaugeOpts{
			Name: "sweep_radar_devices_tracked",
			Help: "Devices in the current sorted view",
		}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sweep_radar_scan_duration_seconds",
			Help:    "Time spent in one discovery run",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveScan records a finished discovery run.
func (m *Metrics) ObserveScan(start time.Time, err error) {
	if m == nil {
		return
	}
	m.ScanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.ScanErrors.Inc()
	}
}

// ObserveMerge records the outcome of a registry merge.
func (m *Metrics) ObserveMerge(added, lost, tracked int) {
	if m == nil {
		return
	}
	m.Scans.Inc()
	m.DevicesNew.Add(float64(added))
	m.DevicesLost.Add(float64(lost))
	m.Tracked.Set(float64(tracked))
}

// ObserveRevolution counts one completed sweep.
func (m *Metrics) ObserveRevolution() {
	if m == nil {
		return
	}
	m.Revolutions.Inc()
}

// NewMetricsHandler serves /metrics from g and a /healthz probe.
func NewMetricsHandler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// StartMetricsServer serves the metrics handler on addr until ctx is done.
func StartMetricsServer(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMetricsHandler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
