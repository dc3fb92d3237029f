package app

import "sweep-radar.klederson.com/internal/bluetooth"

// RSSIRing is a fixed-size ring of RSSI samples.
type RSSIRing struct {
	buf   []float64
	pos   int
	count int
}

// NewRSSIRing creates a ring holding up to capacity samples.
func NewRSSIRing(capacity int) *RSSIRing {
	return &RSSIRing{buf: make([]float64, max(capacity, 1))}
}

func (r *RSSIRing) Push(rssi int) {
	r.buf[r.pos] = float64(rssi)
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the samples oldest first.
func (r *RSSIRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
		return out
	}
	n := copy(out, r.buf[r.pos:])
	copy(out[n:], r.buf[:r.pos])
	return out
}

// Last returns the newest sample, or 0 if empty.
func (r *RSSIRing) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)]
}

func (r *RSSIRing) Len() int { return r.count }

// History keeps one ring per tracked address. It is only touched from the
// Bubble Tea update loop.
type History struct {
	capacity int
	rings    map[string]*RSSIRing
}

func NewHistory(capacity int) *History {
	return &History{capacity: capacity, rings: make(map[string]*RSSIRing)}
}

// Record appends the latest RSSI of every device in a merge and forgets the
// devices it lost.
func (h *History) Record(res bluetooth.MergeResult) {
	for _, d := range res.Lost {
		delete(h.rings, d.Address)
	}
	for _, d := range res.View {
		r, ok := h.rings[d.Address]
		if !ok {
			r = NewRSSIRing(h.capacity)
			h.rings[d.Address] = r
		}
		r.Push(d.RSSI)
	}
}

func (h *History) Values(addr string) []float64 {
	if r, ok := h.rings[addr]; ok {
		return r.Values()
	}
	return nil
}

func (h *History) Reset() {
	clear(h.rings)
}

func (h *History) Len() int { return len(h.rings) }
