package winrender

import (
	"log/slog"
	"slices"
	"sync"
)

// BuildRequest carries everything a backend builder needs.
type BuildRequest struct {
	Loop   EventLoop
	Config WindowConfig

	// Validation requests GPU API debug validation where the backend
	// supports it.
	Validation bool

	// Logger is never nil when passed to a BuilderFunc.
	Logger *slog.Logger
}

// BuilderFunc constructs a renderer for one backend. A builder that fails
// must release everything it created before returning.
type BuilderFunc func(req BuildRequest) (Renderer, error)

var (
	registryMu sync.RWMutex
	builders   = make(map[Backend]BuilderFunc)

	// Order tried by New unless WithBackends overrides it.
	backendPriority = []Backend{BackendVulkan, BackendGL}
)

// Register registers the builder for a backend. Backend packages call it
// from init(). A later registration for the same backend replaces the
// earlier one.
func Register(b Backend, fn BuilderFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	builders[b] = fn
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(builders, b)
}

// IsRegistered checks if a builder is registered for the backend.
func IsRegistered(b Backend) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := builders[b]
	return ok
}

// Available returns the registered backends in priority order.
func Available() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Backend, 0, len(builders))
	for _, b := range backendPriority {
		if _, ok := builders[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// DefaultPriority returns the order New tries backends in.
func DefaultPriority() []Backend {
	return slices.Clone(backendPriority)
}

func lookup(b Backend) (BuilderFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := builders[b]
	return fn, ok
}
