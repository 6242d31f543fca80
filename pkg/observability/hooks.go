// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about render cycles, cache operations, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The prometheus implementation lives in the prom subpackage and is
// registered by the serve command.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCycleHooks(&myCycleHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cycles().OnCycleStart(ctx, gen, reason)
//	// ... filter, aggregate, draw ...
//	observability.Cycles().OnCycleComplete(ctx, gen, reason, matched, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cycle Hooks
// =============================================================================

// CycleHooks receives events from the dashboard render coordinator.
type CycleHooks interface {
	// OnCycleStart is called before filtering starts.
	OnCycleStart(ctx context.Context, generation uint64, reason string)

	// OnCycleComplete is called after every sink has been drawn. err is the
	// first sink error, if any; the cycle still completed.
	OnCycleComplete(ctx context.Context, generation uint64, reason string, matched int, duration time.Duration, err error)

	// OnSummary records the outcome of a focus summary fetch. stale is true
	// when the result was discarded because focus had moved on.
	OnSummary(ctx context.Context, year int, stale bool, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCycleHooks is a no-op implementation of CycleHooks.
type NoopCycleHooks struct{}

func (NoopCycleHooks) OnCycleStart(context.Context, uint64, string) {}
func (NoopCycleHooks) OnCycleComplete(context.Context, uint64, string, int, time.Duration, error) {
}
func (NoopCycleHooks) OnSummary(context.Context, int, bool, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cycleHooks CycleHooks = NoopCycleHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetCycleHooks registers custom cycle hooks.
// This should be called once at application startup before any dashboard is built.
func SetCycleHooks(h CycleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cycleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Cycles returns the registered cycle hooks.
func Cycles() CycleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cycleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cycleHooks = NoopCycleHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
