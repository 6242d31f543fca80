package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/orbitdash/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

// exerciseCache runs the behaviour every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "2019 in spaceflight", []byte(`{"extract":"x"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "2019 in spaceflight")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"extract":"x"}` {
		t.Errorf("Get data = %s", data)
	}

	// Overwrite
	if err := c.Set(ctx, "2019 in spaceflight", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := c.Get(ctx, "2019 in spaceflight"); string(data) != "v2" {
		t.Errorf("overwrite: got %s", data)
	}

	if err := c.Delete(ctx, "2019 in spaceflight"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "2019 in spaceflight"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v, want miss", hit, err)
	}
}

func TestFileCacheCanceled(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Set(ctx, "k", []byte("v"), 0); err == nil {
		t.Error("Set with canceled context should fail")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := Clear(dir); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("Clear should keep the directory itself")
	}
	if err := Clear(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("Clear(missing) error: %v", err)
	}
}

func newRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+s.Addr()+"/0")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestRedisCache(t *testing.T) {
	c, _ := newRedis(t)
	exerciseCache(t, c)
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, s := newRedis(t)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("orbitdash:k") {
		t.Fatal("key should be stored with the orbitdash: prefix")
	}
	if ttl := s.TTL("orbitdash:k"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	s.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired redis entry should miss")
	}
}

func TestRedisCacheFromClient(t *testing.T) {
	s := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: s.Addr()}))
	defer c.Close()
	exerciseCache(t, c)
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "not a url"); err == nil {
		t.Error("bad URL should fail")
	}

	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()
	if _, err := NewRedisCache(ctx, "redis://"+addr); err == nil {
		t.Error("unreachable server should fail")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	kind               string
}

func (h *countingHooks) OnCacheHit(_ context.Context, kind string)  { h.hits++; h.kind = kind }
func (h *countingHooks) OnCacheMiss(_ context.Context, kind string) { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int)    { h.sets++ }

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	inner, _ := NewFileCache(t.TempDir())
	ns := Namespace(inner, "summary:")
	exerciseCache(t, ns)

	_ = ns.Set(ctx, "k", []byte("v"), 0)
	if _, hit, _ := inner.Get(ctx, "summary:k"); !hit {
		t.Error("Namespace should prefix keys in the backend")
	}
	if hooks.hits == 0 || hooks.misses == 0 || hooks.sets == 0 {
		t.Errorf("hooks not called: %+v", hooks)
	}
	if hooks.kind != "summary" {
		t.Errorf("hook key type = %q, want summary", hooks.kind)
	}

	if _, hit, _ := Namespace(nil, "x:").Get(ctx, "k"); hit {
		t.Error("nil backend should behave like NullCache")
	}
}

func TestDefaultDir(t *testing.T) {
	if filepath.Base(DefaultDir()) == "" {
		t.Error("DefaultDir should not be empty")
	}
}
