// Package budget persists completion token counters in Valkey/Redis so the
// budget survives restarts and is shared between replicas.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// Counter lifetimes. A key outlives its period so a late reader still sees it.
const (
	DefaultDailyTTL   = 48 * time.Hour
	DefaultMonthlyTTL = 62 * 24 * time.Hour
)

// kv is the subset of db.KVStore the budget needs.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store implements completion.BudgetStore with INCRBY and EXPIRE NX.
type Store struct {
	kv         kv
	dailyTTL   time.Duration
	monthlyTTL time.Duration
}

// New creates a budget store. Non-positive TTLs select the defaults.
func New(s kv, dailyTTL, monthlyTTL time.Duration) *Store {
	if dailyTTL <= 0 {
		dailyTTL = DefaultDailyTTL
	}
	if monthlyTTL <= 0 {
		monthlyTTL = DefaultMonthlyTTL
	}
	return &Store{kv: s, dailyTTL: dailyTTL, monthlyTTL: monthlyTTL}
}

// IncrBy adds val to the counter and gives a new counter its expiry.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	if err := s.kv.IncrBy(ctx, key, val); err != nil {
		return fmt.Errorf("budget incr %s: %w", key, err)
	}
	// NX keeps the first expiry; later increments must not extend it.
	if err := s.kv.Expire(ctx, key, s.ttlFor(key), true); err != nil {
		return fmt.Errorf("budget expire %s: %w", key, err)
	}
	return nil
}

// Get returns the counter value, 0 when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("budget get %s: %w", key, err)
	}
	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget get %s: parse %q: %w", key, data, err)
	}
	return val, nil
}

// ttlFor picks the lifetime from the period segment of
// catalogsearch:budget:{provider}:{daily|monthly}:{date}:{prompt|completion}.
func (s *Store) ttlFor(key string) time.Duration {
	if strings.Contains(key, ":daily:") {
		return s.dailyTTL
	}
	return s.monthlyTTL
}
