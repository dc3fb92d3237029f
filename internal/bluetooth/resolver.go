package bluetooth

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// NameResolver remembers names for devices that advertise none. Lookups are
// served from the cache; misses are queried in the background with
// `hcitool name` and show up on a later scan.
type NameResolver struct {
	mu    sync.Mutex
	tried map[string]int
	names map[string]string
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	query func(ctx context.Context, mac string) string
	pause time.Duration
}

const (
	maxAttempts    = 2
	resolveTimeout = 4 * time.Second
	resolvePause   = 3 * time.Second
)

// NewNameResolver creates a resolver backed by hcitool.
func NewNameResolver() *NameResolver {
	return &NameResolver{
		tried: make(map[string]int),
		names: make(map[string]string),
		stop:  make(chan struct{}),
		query: hcitoolName,
		pause: resolvePause,
	}
}

// Lookup returns a previously resolved name.
func (r *NameResolver) Lookup(mac string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[mac]
	return name, ok
}

// RequestResolve queues a background name request unless the address is
// already resolved or out of attempts. Safe to call from any goroutine.
func (r *NameResolver) RequestResolve(mac string) {
	r.mu.Lock()
	if _, ok := r.names[mac]; ok || r.tried[mac] >= maxAttempts {
		r.mu.Unlock()
		return
	}
	r.tried[mac]++
	r.mu.Unlock()

	r.wg.Add(1)
	go r.resolve(mac)
}

func (r *NameResolver) resolve(mac string) {
	defer r.wg.Done()

	// Rate limit
	select {
	case <-r.stop:
		return
	case <-time.After(r.pause):
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	go func() {
		select {
		case <-r.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	name := r.query(ctx, mac)
	if name == "" {
		return
	}
	r.mu.Lock()
	r.names[mac] = name
	r.mu.Unlock()
}

// Stop cancels pending requests and waits for them to return.
func (r *NameResolver) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func hcitoolName(ctx context.Context, mac string) string {
	out, err := exec.CommandContext(ctx, "hcitool", "name", mac).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
