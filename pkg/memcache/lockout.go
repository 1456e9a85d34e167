package mem

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"
)

// LockoutPolicy controls how failed authentication attempts turn into a temporary block.
type LockoutPolicy struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:   5,
		Window:        15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// AttemptEntry is the per-address state.
type AttemptEntry struct {
	Count        int       `json:"count"`
	FirstAttempt time.Time `json:"firstAttempt"`
	LastAttempt  time.Time `json:"lastAttempt"`
	BlockedUntil time.Time `json:"blockedUntil,omitempty"`
}

func (e AttemptEntry) BlockedAt(now time.Time) bool {
	return !e.BlockedUntil.IsZero() && now.Before(e.BlockedUntil)
}

// Expired reports whether the sweeper may drop the entry.
func (e AttemptEntry) Expired(now time.Time, p LockoutPolicy) bool {
	if !e.BlockedUntil.IsZero() {
		return now.After(e.BlockedUntil)
	}
	return now.Sub(e.FirstAttempt) > p.Window
}

type BlockedEntry struct {
	IP               string    `json:"ip"`
	Attempts         int       `json:"attempts"`
	BlockedUntil     time.Time `json:"blockedUntil"`
	RemainingMinutes int       `json:"remainingMinutes"`
}

// RemainingMinutes rounds the time left on a block up to whole minutes.
func RemainingMinutes(until, now time.Time) int {
	if !until.After(now) {
		return 0
	}
	return int(math.Ceil(until.Sub(now).Minutes()))
}

// nextAttempt applies one failed attempt. A new window starts when the previous one has elapsed.
func nextAttempt(prev *AttemptEntry, now time.Time, p LockoutPolicy) AttemptEntry {
	if prev == nil || now.Sub(prev.FirstAttempt) > p.Window {
		return AttemptEntry{Count: 1, FirstAttempt: now, LastAttempt: now}
	}
	next := *prev
	next.Count++
	next.LastAttempt = now
	if next.Count >= p.MaxAttempts {
		next.BlockedUntil = now.Add(p.BlockDuration)
	}
	return next
}

// LockoutStore tracks failed attempts per client address. The memory implementation is
// process-local, so a horizontally scaled deployment under-enforces unless the redis store is used.
type LockoutStore interface {
	// Check returns the active block expiry, or zero time when the address may proceed.
	Check(ctx context.Context, ip string) (time.Time, error)
	RecordFailure(ctx context.Context, ip string) (AttemptEntry, error)
	Clear(ctx context.Context, ip string) error
	Blocked(ctx context.Context) ([]BlockedEntry, error)
}

type MemoryLockoutStore struct {
	mu     sync.Mutex
	data   map[string]AttemptEntry
	policy LockoutPolicy
	now    func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemoryLockoutStore(policy LockoutPolicy) *MemoryLockoutStore {
	return &MemoryLockoutStore{
		data:   make(map[string]AttemptEntry),
		policy: policy,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

func (s *MemoryLockoutStore) Check(_ context.Context, ip string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[ip]
	if !ok || e.BlockedUntil.IsZero() {
		return time.Time{}, nil
	}
	now := s.now()
	if e.BlockedAt(now) {
		return e.BlockedUntil, nil
	}
	delete(s.data, ip)
	return time.Time{}, nil
}

func (s *MemoryLockoutStore) RecordFailure(_ context.Context, ip string) (AttemptEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *AttemptEntry
	if e, ok := s.data[ip]; ok {
		prev = &e
	}
	next := nextAttempt(prev, s.now(), s.policy)
	s.data[ip] = next
	return next, nil
}

func (s *MemoryLockoutStore) Clear(_ context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ip)
	return nil
}

func (s *MemoryLockoutStore) Blocked(_ context.Context) ([]BlockedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]BlockedEntry, 0)
	for ip, e := range s.data {
		if e.BlockedAt(now) {
			out = append(out, BlockedEntry{
				IP:               ip,
				Attempts:         e.Count,
				BlockedUntil:     e.BlockedUntil,
				RemainingMinutes: RemainingMinutes(e.BlockedUntil, now),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockedUntil.Before(out[j].BlockedUntil) })
	return out, nil
}

// Sweep drops expired blocks and stale unblocked windows. It returns the number removed.
func (s *MemoryLockoutStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for ip, e := range s.data {
		if e.Expired(now, s.policy) {
			delete(s.data, ip)
			removed++
		}
	}
	return removed
}

func (s *MemoryLockoutStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// StartSweeper runs Sweep every interval until Stop is called.
func (s *MemoryLockoutStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *MemoryLockoutStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}
