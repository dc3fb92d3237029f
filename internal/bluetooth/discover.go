package bluetooth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Discoverer produces one snapshot of the devices currently in range.
// Discover may block for the length of a scan window.
type Discoverer interface {
	Discover(ctx context.Context) ([]Sighting, error)
}

// DiscovererFunc adapts a function to the Discoverer interface.
type DiscovererFunc func(ctx context.Context) ([]Sighting, error)

func (f DiscovererFunc) Discover(ctx context.Context) ([]Sighting, error) {
	return f(ctx)
}

// MultiDiscoverer runs several discoverers concurrently and concatenates
// their snapshots. It fails only when every source fails; partial failures
// are returned alongside the surviving results.
type MultiDiscoverer struct {
	sources []namedSource
}

type namedSource struct {
	name  string
	d     Discoverer
	types []DeviceType
}

// NewMultiDiscoverer creates an empty MultiDiscoverer.
func NewMultiDiscoverer() *MultiDiscoverer {
	return &MultiDiscoverer{}
}

// Add registers a source under a name used in error messages. types lists
// the device types the source reports; a source registered without any is
// assumed to report every type.
func (m *MultiDiscoverer) Add(name string, d Discoverer, types ...DeviceType) {
	m.sources = append(m.sources, namedSource{name: name, d: d, types: types})
}

// Len returns the number of registered sources.
func (m *MultiDiscoverer) Len() int {
	return len(m.sources)
}

// PartialError reports sources that failed while others succeeded.
type PartialError struct {
	Err   error
	Types []DeviceType // Types the failed sources report; empty means any
}

// Covers reports whether a device of this type could have come from a
// failed source, so its absence from the results says nothing.
func (e *PartialError) Covers(d Device) bool {
	if len(e.Types) == 0 {
		return true
	}
	return slices.Contains(e.Types, d.Type)
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial discovery: %v", e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

func (m *MultiDiscoverer) Discover(ctx context.Context) ([]Sighting, error) {
	if len(m.sources) == 0 {
		return nil, errors.New("no discovery sources configured")
	}

	results := make([][]Sighting, len(m.sources))
	errs := make([]error, len(m.sources))

	var wg sync.WaitGroup
	for i, src := range m.sources {
		wg.Add(1)
		go func(i int, src namedSource) {
			defer wg.Done()
			got, err := src.d.Discover(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.name, err)
				return
			}
			results[i] = got
		}(i, src)
	}
	wg.Wait()

	var (
		out     []Sighting
		types   []DeviceType
		anyType bool
		failed  int
	)
	for i, src := range m.sources {
		if errs[i] != nil {
			failed++
			if len(src.types) == 0 {
				anyType = true
			}
			types = append(types, src.types...)
			continue
		}
		out = append(out, results[i]...)
	}
	if anyType {
		types = nil
	}

	err := errors.Join(errs...)
	switch {
	case failed == len(m.sources):
		return nil, err
	case failed > 0:
		return out, &PartialError{Err: err, Types: types}
	}
	return out, nil
}
