package mem

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const lockoutKeyPrefix = "lockout:"

// RedisLockoutStore shares lockout state between instances. Entries expire through redis TTLs,
// so no sweeper is needed.
type RedisLockoutStore struct {
	client *redis.Client
	policy LockoutPolicy
	now    func() time.Time
}

func NewRedisLockoutStore(client *redis.Client, policy LockoutPolicy) *RedisLockoutStore {
	return &RedisLockoutStore{client: client, policy: policy, now: time.Now}
}

func (s *RedisLockoutStore) key(ip string) string {
	return lockoutKeyPrefix + ip
}

func (s *RedisLockoutStore) load(ctx context.Context, ip string) (*AttemptEntry, error) {
	raw, err := s.client.Get(ctx, s.key(ip)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lockout get %s: %w", ip, err)
	}
	var e AttemptEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("lockout decode %s: %w", ip, err)
	}
	return &e, nil
}

func (s *RedisLockoutStore) Check(ctx context.Context, ip string) (time.Time, error) {
	e, err := s.load(ctx, ip)
	if err != nil || e == nil || e.BlockedUntil.IsZero() {
		return time.Time{}, err
	}
	if e.BlockedAt(s.now()) {
		return e.BlockedUntil, nil
	}
	return time.Time{}, s.client.Del(ctx, s.key(ip)).Err()
}

// RecordFailure is a read-modify-write; concurrent failures from one address may lose a count.
func (s *RedisLockoutStore) RecordFailure(ctx context.Context, ip string) (AttemptEntry, error) {
	prev, err := s.load(ctx, ip)
	if err != nil {
		return AttemptEntry{}, err
	}
	now := s.now()
	next := nextAttempt(prev, now, s.policy)

	raw, err := json.Marshal(next)
	if err != nil {
		return AttemptEntry{}, err
	}

	ttl := s.policy.Window
	if !next.BlockedUntil.IsZero() {
		if untilBlock := next.BlockedUntil.Sub(now); untilBlock > ttl {
			ttl = untilBlock
		}
	}
	if err := s.client.Set(ctx, s.key(ip), raw, ttl+time.Minute).Err(); err != nil {
		return AttemptEntry{}, fmt.Errorf("lockout set %s: %w", ip, err)
	}
	return next, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, ip string) error {
	return s.client.Del(ctx, s.key(ip)).Err()
}

func (s *RedisLockoutStore) Blocked(ctx context.Context) ([]BlockedEntry, error) {
	now := s.now()
	out := make([]BlockedEntry, 0)

	iter := s.client.Scan(ctx, 0, lockoutKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ip := strings.TrimPrefix(iter.Val(), lockoutKeyPrefix)
		e, err := s.load(ctx, ip)
		if err != nil {
			return nil, err
		}
		if e != nil && e.BlockedAt(now) {
			out = append(out, BlockedEntry{
				IP:               ip,
				Attempts:         e.Count,
				BlockedUntil:     e.BlockedUntil,
				RemainingMinutes: RemainingMinutes(e.BlockedUntil, now),
			})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("lockout scan: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].BlockedUntil.Before(out[j].BlockedUntil) })
	return out, nil
}
