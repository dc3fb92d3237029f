package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/observability"
	"sweep-radar.klederson.com/internal/radar"
)

// ScanLoop runs discovery in the background and feeds every snapshot to the
// controller. Discovery itself never holds a radar lock, so the sweep keeps
// animating while a scan window is open.
type ScanLoop struct {
	source   bluetooth.Discoverer
	ctrl     *radar.Controller
	interval time.Duration
	log      *slog.Logger
	metrics  *observability.Metrics
	notify   func(tea.Msg)
}

// NewScanLoop creates a loop that pauses interval between runs. log and
// metrics may be nil.
func NewScanLoop(source bluetooth.Discoverer, ctrl *radar.Controller, interval time.Duration, log *slog.Logger, metrics *observability.Metrics) *ScanLoop {
	return &ScanLoop{
		source:   source,
		ctrl:     ctrl,
		interval: interval,
		log:      observability.OrNop(log).With("component", "scan"),
		metrics:  metrics,
	}
}

// Notify sets where scan outcomes are sent, typically tea.Program.Send.
func (s *ScanLoop) Notify(fn func(tea.Msg)) {
	s.notify = fn
}

// Run scans immediately and then once per interval until ctx is done.
func (s *ScanLoop) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		_, _ = s.ScanOnce(ctx)
		timer.Reset(s.interval)
	}
}

// ScanOnce performs one discovery run and merges it. A run where every
// source failed leaves the registry unchanged; a partial failure merges
// what the surviving sources found and keeps the devices the failed sources
// would have reported.
func (s *ScanLoop) ScanOnce(ctx context.Context) (bluetooth.MergeResult, error) {
	start := time.Now()
	found, err := s.source.Discover(ctx)
	if err != nil && ctx.Err() != nil {
		return bluetooth.MergeResult{}, ctx.Err()
	}
	s.metrics.ObserveScan(start, err)

	var partial *bluetooth.PartialError
	switch {
	case err == nil:
	case errors.As(err, &partial):
		s.log.Warn("scan partially failed", "error", err, "found", len(found))
	default:
		s.log.Error("scan failed", "error", err)
		s.send(ScanErrorMsg{Err: err})
		return bluetooth.MergeResult{}, err
	}

	var res bluetooth.MergeResult
	if partial != nil {
		res = s.ctrl.OnPartialScanResult(found, partial.Covers)
	} else {
		res = s.ctrl.OnScanResult(found)
	}
	s.log.Debug("scan complete", "found", len(found), "took", time.Since(start))
	s.send(ScanDoneMsg{Result: res, Err: err})
	return res, err
}

func (s *ScanLoop) send(msg tea.Msg) {
	if s.notify != nil {
		s.notify(msg)
	}
}
