package mem

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore() (*MemoryLockoutStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryLockoutStore(DefaultLockoutPolicy())
	s.now = clock.Now
	return s, clock
}

func TestLockoutBlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 1; i <= 4; i++ {
		e, _ := s.RecordFailure(ctx, "10.0.0.1")
		if e.Count != i || !e.BlockedUntil.IsZero() {
			t.Fatalf("attempt %d: entry = %+v", i, e)
		}
		if until, _ := s.Check(ctx, "10.0.0.1"); !until.IsZero() {
			t.Fatalf("blocked after %d attempts", i)
		}
	}

	e, _ := s.RecordFailure(ctx, "10.0.0.1")
	want := clock.Now().Add(15 * time.Minute)
	if !e.BlockedUntil.Equal(want) {
		t.Fatalf("BlockedUntil = %v, want %v", e.BlockedUntil, want)
	}

	until, _ := s.Check(ctx, "10.0.0.1")
	if !until.Equal(want) {
		t.Errorf("Check() = %v, want %v", until, want)
	}
	if until, _ := s.Check(ctx, "10.0.0.2"); !until.IsZero() {
		t.Error("unrelated address blocked")
	}
}

func TestLockoutBlockExpires(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < 5; i++ {
		s.RecordFailure(ctx, "ip")
	}
	clock.Advance(14 * time.Minute)
	if until, _ := s.Check(ctx, "ip"); until.IsZero() {
		t.Fatal("block lifted early")
	}

	clock.Advance(2 * time.Minute)
	if until, _ := s.Check(ctx, "ip"); !until.IsZero() {
		t.Fatal("block not lifted after expiry")
	}
	if s.Len() != 0 {
		t.Errorf("expired entry kept, len = %d", s.Len())
	}
}

func TestLockoutWindowResets(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < 4; i++ {
		s.RecordFailure(ctx, "ip")
	}
	clock.Advance(16 * time.Minute)

	e, _ := s.RecordFailure(ctx, "ip")
	if e.Count != 1 || !e.BlockedUntil.IsZero() {
		t.Errorf("new window should restart the count: %+v", e)
	}
}

func TestLockoutClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	for i := 0; i < 3; i++ {
		s.RecordFailure(ctx, "ip")
	}
	s.Clear(ctx, "ip")

	e, _ := s.RecordFailure(ctx, "ip")
	if e.Count != 1 {
		t.Errorf("Count after clear = %d, want 1", e.Count)
	}
}

func TestLockoutSweep(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < 5; i++ {
		s.RecordFailure(ctx, "blocked")
	}
	s.RecordFailure(ctx, "stale")
	clock.Advance(10 * time.Minute)
	s.RecordFailure(ctx, "fresh")

	clock.Advance(6 * time.Minute)
	removed := s.Sweep()

	if removed != 2 {
		t.Errorf("Sweep() removed %d, want 2 (expired block and stale window)", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestBlockedListing(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < 5; i++ {
		s.RecordFailure(ctx, "a")
	}
	clock.Advance(time.Minute)
	for i := 0; i < 5; i++ {
		s.RecordFailure(ctx, "b")
	}
	s.RecordFailure(ctx, "c")

	clock.Advance(30 * time.Second)
	blocked, err := s.Blocked(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocked) != 2 {
		t.Fatalf("Blocked() = %+v, want 2 entries", blocked)
	}
	if blocked[0].IP != "a" || blocked[0].RemainingMinutes != 14 {
		t.Errorf("first entry = %+v", blocked[0])
	}
	if blocked[1].IP != "b" || blocked[1].RemainingMinutes != 15 {
		t.Errorf("second entry = %+v", blocked[1])
	}
}

func TestRemainingMinutes(t *testing.T) {
	now := time.Now()
	tests := []struct {
		until time.Time
		want  int
	}{
		{now.Add(15 * time.Minute), 15},
		{now.Add(61 * time.Second), 2},
		{now.Add(time.Second), 1},
		{now, 0},
		{now.Add(-time.Minute), 0},
	}
	for _, tt := range tests {
		if got := RemainingMinutes(tt.until, now); got != tt.want {
			t.Errorf("RemainingMinutes(%v) = %d, want %d", tt.until.Sub(now), got, tt.want)
		}
	}
}

func TestLockoutConcurrentFailures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLockoutStore(LockoutPolicy{MaxAttempts: 1000, Window: time.Hour, BlockDuration: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecordFailure(ctx, "ip")
		}()
	}
	wg.Wait()

	e, _ := s.RecordFailure(ctx, "ip")
	if e.Count != 51 {
		t.Errorf("Count = %d, want 51", e.Count)
	}
}
