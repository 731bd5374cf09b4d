package backend

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/shaderview"
)

// BackendFactory creates a backend.
type BackendFactory func() RenderBackend

var (
	mu        sync.RWMutex
	factories = map[string]BackendFactory{}

	// preferred lists the backends Default tries before any other.
	preferred = []string{BackendVulkan, BackendNull}
)

// Register makes a backend available under name, replacing any previous
// registration. Backend packages call it from init.
func Register(name string, factory BackendFactory) {
	mu.Lock()
	factories[name] = factory
	mu.Unlock()
}

// Unregister removes the backend registered under name.
func Unregister(name string) {
	mu.Lock()
	delete(factories, name)
	mu.Unlock()
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	mu.RLock()
	_, ok := factories[name]
	mu.RUnlock()
	return ok
}

// Get returns a new instance of the named backend, or nil.
func Get(name string) RenderBackend {
	mu.RLock()
	f := factories[name]
	mu.RUnlock()
	if f == nil {
		return nil
	}
	return f()
}

// Default returns the first backend in preference order, then in name
// order. It returns nil when nothing is registered.
func Default() RenderBackend {
	mu.RLock()
	order := slices.Clone(preferred)
	for _, name := range slices.Sorted(maps.Keys(factories)) {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	mu.RUnlock()

	for _, name := range order {
		if b := Get(name); b != nil {
			return b
		}
	}
	return nil
}

// Open opens a device on the named backend. An empty name selects
// Default.
func Open(name string, target Target, opts Options) (Device, error) {
	b := Default()
	if name != "" {
		b = Get(name)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	dev, err := b.Open(target, opts)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", b.Name(), err)
	}
	shaderview.ComponentLogger("backend").Info("device opened",
		"backend", b.Name(), "device", dev.Capabilities().DeviceName,
		"raytracing", dev.Capabilities().RayTracing)
	return dev, nil
}
