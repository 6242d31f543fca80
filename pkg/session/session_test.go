package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
)

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T, ttl time.Duration, opts ...Option) (*Store, *clock) {
	t.Helper()
	ds := dataset.New([]dataset.Record{
		{Year: 2020, Country: "US", ObjectType: dataset.ObjectPayload, Status: dataset.StatusActive},
	})
	idx := facet.Build(ds.Records)
	logger := log.New(io.Discard)

	s := NewStore(ttl, func(context.Context) (*Session, error) {
		canvas := chart.NewCanvas(logger)
		coord, err := dashboard.New(ds, idx, dashboard.WithLogger(logger), dashboard.WithSinks(canvas))
		if err != nil {
			return nil, err
		}
		return &Session{Dashboard: coord, Canvas: canvas}, nil
	}, opts...)
	c := &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.now = c.Now
	t.Cleanup(s.Close)
	return s, c
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newStore(t, time.Minute)
	sess, err := s.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(sess.ID) != 36 {
		t.Errorf("ID = %q, want a uuid", sess.ID)
	}
	if sess.Dashboard.Frame() == nil {
		t.Error("new session should have an initial frame")
	}
	if _, ok := sess.Canvas.SVG(chart.NameTimeline); !ok {
		t.Error("new session canvas should be drawn")
	}

	got, err := s.Get(sess.ID)
	if err != nil || got != sess {
		t.Errorf("Get() = %v, %v", got, err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newStore(t, time.Minute)
	a, _ := s.Create(context.Background())
	b, _ := s.Create(context.Background())
	if err := a.Dashboard.Toggle(facet.Country, "US"); err != nil {
		t.Fatal(err)
	}
	if b.Dashboard.Frame().Selection.IsRestricted(facet.Country) {
		t.Error("selection leaked between sessions")
	}
}

func TestExpiry(t *testing.T) {
	s, clk := newStore(t, time.Minute)
	ctx := context.Background()
	old, _ := s.Create(ctx)
	clk.Advance(45 * time.Second)
	fresh, _ := s.Create(ctx)

	clk.Advance(30 * time.Second)
	if n := s.Cleanup(ctx); n != 1 {
		t.Errorf("Cleanup() removed %d, want 1", n)
	}
	if _, err := s.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(old) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}

	clk.Advance(2 * time.Minute)
	if _, err := s.Get(fresh.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(idle) error = %v, want ErrExpired", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	s, clk := newStore(t, time.Minute)
	sess, _ := s.Create(context.Background())
	for i := 0; i < 3; i++ {
		clk.Advance(40 * time.Second)
		if _, err := s.Get(sess.ID); err != nil {
			t.Fatalf("Get() after %d touches: %v", i, err)
		}
	}
}

func TestFactoryError(t *testing.T) {
	boom := errors.New("boom")
	s := NewStore(0, func(context.Context) (*Session, error) { return nil, boom })
	if _, err := s.Create(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v", err)
	}
	if s.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want default", s.ttl)
	}
}

func TestCreateEvictsLeastRecentlyUsed(t *testing.T) {
	s, clk := newStore(t, time.Hour, WithLimit(2))
	ctx := context.Background()

	a, _ := s.Create(ctx)
	clk.Advance(time.Second)
	b, _ := s.Create(ctx)
	clk.Advance(time.Second)
	if _, err := s.Get(a.ID); err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)

	c, err := s.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
	if _, err := s.Get(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("least recently used session should be evicted, Get() error = %v", err)
	}
	for _, sess := range []*Session{a, c} {
		if _, err := s.Get(sess.ID); err != nil {
			t.Errorf("Get(%s) error: %v", sess.ID, err)
		}
	}
}

func TestCreatePrefersExpiredOverLive(t *testing.T) {
	s, clk := newStore(t, time.Minute, WithLimit(2))
	ctx := context.Background()

	old, _ := s.Create(ctx)
	clk.Advance(2 * time.Minute)
	live, _ := s.Create(ctx)
	if _, err := s.Create(ctx); err != nil {
		t.Fatal(err)
	}

	if n := s.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
	if _, err := s.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session should be dropped first, Get() error = %v", err)
	}
	if _, err := s.Get(live.ID); err != nil {
		t.Errorf("live session evicted: %v", err)
	}
}
