package app

import (
	"time"

	"sweep-radar.klederson.com/internal/bluetooth"
)

// TickMsg drives the sweep animation.
type TickMsg time.Time

// ScanDoneMsg carries the outcome of a merged discovery run. Err is set
// when some sources failed but the survivors were still merged.
type ScanDoneMsg struct {
	Result bluetooth.MergeResult
	Err    error
}

// ScanErrorMsg reports a discovery run that produced nothing. The registry
// is left untouched.
type ScanErrorMsg struct {
	Err error
}
