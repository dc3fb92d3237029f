package bluetooth

import (
	"slices"
	"sync"
	"time"
)

// Registry owns the set of known devices and the sorted view derived from
// the latest scan. Merge is the only way to change membership outside of
// Clear; every reader receives copies.
//
// The sorted view and the known set are always replaced together inside
// one critical section, so a reader never sees one without the other.
type Registry struct {
	mu     sync.Mutex
	known  map[string]*Device
	sorted []Device
	seq    uint64
	now    func() time.Time
}

// MergeResult describes what a Merge changed.
type MergeResult struct {
	Added []Device // Devices seen for the first time, in input order
	Lost  []Device // Devices absent from the snapshot, in first-seen order
	View  []Device // The new sorted view
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		known: make(map[string]*Device),
		now:   time.Now,
	}
}

// Merge reconciles a fresh discovery snapshot with the known devices:
// unseen devices are added, seen ones refreshed in place, and devices
// missing from the snapshot are dropped. The sorted view becomes the
// snapshot ordered by RSSI descending, ties by first-seen order.
//
// Duplicate addresses in discovered collapse to their last occurrence.
func (r *Registry) Merge(discovered []Sighting) MergeResult {
	return r.MergeKeeping(discovered, nil)
}

// MergeKeeping is Merge, except that known devices missing from the
// snapshot for which keep returns true stay in the registry unchanged. It
// lets a scan whose sources partly failed merge what the others found
// without dropping the devices only the failed sources could see.
func (r *Registry) MergeKeeping(discovered []Sighting, keep func(Device) bool) MergeResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	seen := make(map[string]bool, len(discovered))
	for _, s := range discovered {
		seen[s.Address] = true
	}

	var res MergeResult
	for addr, d := range r.known {
		if !seen[addr] && (keep == nil || !keep(*d)) {
			res.Lost = append(res.Lost, *d)
		}
	}
	slices.SortFunc(res.Lost, func(a, b Device) int {
		return cmpUint64(a.FirstSeen, b.FirstSeen)
	})

	// Upsert in input order so new devices take first-seen sequence
	// numbers in discovery order. Later duplicates overwrite earlier ones.
	var added []string
	for _, s := range discovered {
		name := s.Name
		if name == "" {
			name = UnknownName
		}
		if d, ok := r.known[s.Address]; ok {
			d.Name = name
			d.RSSI = s.RSSI
			d.Type = s.Type
			d.LastSeen = now
			continue
		}
		r.seq++
		r.known[s.Address] = &Device{
			Address:   s.Address,
			Name:      name,
			RSSI:      s.RSSI,
			Type:      s.Type,
			FirstSeen: r.seq,
			LastSeen:  now,
		}
		added = append(added, s.Address)
	}

	for _, d := range res.Lost {
		delete(r.known, d.Address)
	}

	// known now holds the snapshot's addresses plus any kept devices.
	// FirstSeen is unique, so the order below does not depend on map
	// iteration.
	view := make([]*Device, 0, len(r.known))
	for _, d := range r.known {
		view = append(view, d)
	}
	slices.SortFunc(view, func(a, b *Device) int {
		if a.RSSI != b.RSSI {
			return b.RSSI - a.RSSI
		}
		return cmpUint64(a.FirstSeen, b.FirstSeen)
	})

	sorted := make([]Device, len(view))
	for i, d := range view {
		d.Rank = i
		sorted[i] = *d
	}
	r.sorted = sorted

	// Added reports the final values, after duplicates collapsed.
	res.Added = make([]Device, len(added))
	for i, addr := range added {
		res.Added[i] = *r.known[addr]
	}
	res.View = slices.Clone(sorted)
	return res
}

// Snapshot returns a copy of the sorted view.
func (r *Registry) Snapshot() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.sorted)
}

// Known returns a copy of the known set keyed by address.
func (r *Registry) Known() map[string]Device {
	known, _ := r.View()
	return known
}

// View returns copies of the known set and the sorted view taken in the
// same critical section.
func (r *Registry) View() (map[string]Device, []Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	known := make(map[string]Device, len(r.known))
	for addr, d := range r.known {
		known[addr] = *d
	}
	return known, slices.Clone(r.sorted)
}

// Clear forgets every device and returns them as lost, in first-seen order.
func (r *Registry) Clear() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	lost := make([]Device, 0, len(r.known))
	for _, d := range r.known {
		lost = append(lost, *d)
	}
	slices.SortFunc(lost, func(a, b Device) int {
		return cmpUint64(a.FirstSeen, b.FirstSeen)
	})
	r.known = make(map[string]*Device)
	r.sorted = nil
	return lost
}

// Len returns the number of known devices.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.known)
}

// CountByType returns counts broken down by device type.
func (r *Registry) CountByType() (ble, classic, wifi int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.known {
		switch d.Type {
		case DeviceTypeClassic:
			classic++
		case DeviceTypeWiFi:
			wifi++
		default:
			ble++
		}
	}
	return
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
