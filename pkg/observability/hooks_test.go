package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Cycle hooks
	p := NoopCycleHooks{}
	p.OnCycleStart(ctx, 1, "toggle country")
	p.OnCycleComplete(ctx, 1, "toggle country", 4200, time.Millisecond, nil)
	p.OnSummary(ctx, 2019, true, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "summary")
	c.OnCacheMiss(ctx, "summary")
	c.OnCacheSet(ctx, "summary", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "en.wikipedia.org", "/api/rest_v1/page/summary/2019_in_spaceflight")
	h.OnResponse(ctx, "GET", "en.wikipedia.org", "/api/rest_v1/page/summary/2019_in_spaceflight", 200, time.Second)
	h.OnError(ctx, "GET", "en.wikipedia.org", "/api/rest_v1/page/summary/2019_in_spaceflight", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Cycles().(NoopCycleHooks); !ok {
		t.Error("Cycles() should return NoopCycleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customCycles := &testCycleHooks{}
	SetCycleHooks(customCycles)
	if Cycles() != customCycles {
		t.Error("SetCycleHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Cycles().(NoopCycleHooks); !ok {
		t.Error("Reset() should restore NoopCycleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCycleHooks{}
	SetCycleHooks(custom)

	// Setting nil should be ignored
	SetCycleHooks(nil)

	if Cycles() != custom {
		t.Error("SetCycleHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCycleHooks struct{ NoopCycleHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
