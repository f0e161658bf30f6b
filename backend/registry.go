package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/texres/gpucore"
)

// ErrAdapterNotAvailable is returned when no adapter is registered.
var ErrAdapterNotAvailable = errors.New("backend: no adapter available")

// AdapterFactory creates a new adapter instance.
type AdapterFactory func() gpucore.Adapter

// registry holds registered adapters.
var (
	registryMu sync.RWMutex
	adapters   = make(map[string]AdapterFactory)
	// Priority order for adapter selection (first available wins).
	adapterPriority = []string{AdapterWGPU, AdapterSoftware}
)

// Register registers an adapter factory with the given name.
// This is typically called from init() functions in adapter packages.
// If an adapter with the same name is already registered, it is replaced.
func Register(name string, factory AdapterFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[name] = factory
}

// Unregister removes an adapter from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(adapters, name)
}

// Available returns a list of registered adapter names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if an adapter with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := adapters[name]
	return ok
}

// Get returns an adapter instance by name.
// Returns nil if the adapter is not registered.
func Get(name string) gpucore.Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := adapters[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available adapter based on priority.
// Priority order: wgpu > software.
// Returns nil if no adapters are registered.
func Default() gpucore.Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range adapterPriority {
		if factory, ok := adapters[name]; ok {
			if a := factory(); a != nil {
				return a
			}
		}
	}

	// Fallback: return first available.
	for _, factory := range adapters {
		if a := factory(); a != nil {
			return a
		}
	}
	return nil
}

// MustDefault returns the default adapter or panics.
func MustDefault() gpucore.Adapter {
	a := Default()
	if a == nil {
		panic("backend: no adapter available")
	}
	return a
}

// InitDefault returns the default adapter, initialized.
func InitDefault() (gpucore.Adapter, error) {
	a := Default()
	if a == nil {
		return nil, ErrAdapterNotAvailable
	}
	if err := a.Init(); err != nil {
		return nil, err
	}
	return a, nil
}
