// Package completion wraps completion providers with token budget
// enforcement.
package completion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
)

// BudgetAction defines behavior when the token budget is spent.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but lets the request through.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject skips the provider; searches fall back to the pattern interpreter.
	BudgetActionReject BudgetAction = "reject"
)

// persistTimeout bounds the write-behind of one Record.
const persistTimeout = 2 * time.Second

// BudgetStore persists budget counters. IncrBy may be called repeatedly.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// window is one UTC day or month of consumption. A zero limit never
// exceeds.
type window struct {
	period domusage.Period
	limit  int64
	start  time.Time
	used   domusage.Tokens
}

func windowStart(p domusage.Period, t time.Time) time.Time {
	if p == domusage.PeriodDay {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// roll starts a fresh window once now has left the current one.
func (w *window) roll(now time.Time) {
	if s := windowStart(w.period, now); s.After(w.start) {
		w.start = s
		w.used = domusage.Tokens{}
	}
}

func (w *window) spent() bool {
	return w.limit > 0 && w.used.Total() >= w.limit
}

// remaining is -1 for an unlimited window and never negative otherwise.
func (w *window) remaining() int64 {
	if w.limit == 0 {
		return -1
	}
	return max(w.limit-w.used.Total(), 0)
}

// keys returns the prompt and completion counter keys,
// catalogsearch:budget:{provider}:{daily|monthly}:{date}:{part}.
func (w *window) keys(provider string) (prompt, completion string) {
	label, layout := "monthly", "2006-01"
	if w.period == domusage.PeriodDay {
		label, layout = "daily", "2006-01-02"
	}
	base := fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, provider, label, w.start.Format(layout))
	return base + ":prompt", base + ":completion"
}

// BudgetTracker counts prompt and completion tokens per UTC day and month
// against one cap on their sum. Check reads memory only; Record updates
// memory and then writes behind to the store when one is attached.
type BudgetTracker struct {
	mu       sync.Mutex
	day      window
	month    window
	action   BudgetAction
	provider string
	store    BudgetStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewBudgetTracker creates a tracker. A zero limit disables that period's cap.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		day:      window{period: domusage.PeriodDay, limit: dailyLimit},
		month:    window{period: domusage.PeriodMonth, limit: monthlyLimit},
		action:   action,
		provider: provider,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	b.rollAt(b.now())
	return b
}

// rollAt moves both windows to now. Callers hold mu, except in the constructor.
func (b *BudgetTracker) rollAt(now time.Time) {
	b.day.roll(now)
	b.month.roll(now)
}

// WithStore attaches a persistence store and loads the current counters,
// so restarts keep today's consumption.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	b.rollAt(b.now())
	for _, w := range []*window{&b.day, &b.month} {
		promptKey, completionKey := w.keys(b.provider)
		prompt, perr := store.Get(ctx, promptKey)
		completion, cerr := store.Get(ctx, completionKey)
		if perr != nil || cerr != nil {
			b.logger.Warn("Failed to load completion budget",
				zap.String("period", string(w.period)),
				zap.NamedError("prompt_error", perr),
				zap.NamedError("completion_error", cerr),
			)
			continue
		}
		w.used = domusage.Tokens{Prompt: prompt, Completion: completion}
	}

	b.logger.Info("Completion budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_prompt", b.day.used.Prompt),
		zap.Int64("daily_completion", b.day.used.Completion),
		zap.Int64("monthly_used", b.month.used.Total()),
	)
	return b
}

// Check reports whether a new completion may be sent. With BudgetActionReject
// a spent budget returns domain.ErrCompletionBudgetExceeded.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollAt(b.now())

	if !b.day.spent() && !b.month.spent() {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrCompletionBudgetExceeded
	}
	b.logger.Warn("Completion token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used.Total()),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used.Total()),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record charges one completion's tokens to both windows.
func (b *BudgetTracker) Record(t domusage.Tokens) {
	if t.Total() <= 0 {
		return
	}
	b.mu.Lock()
	b.rollAt(b.now())
	b.day.used = b.day.used.Add(t)
	b.month.used = b.month.used.Add(t)
	store := b.store
	var keys [4]string
	keys[0], keys[1] = b.day.keys(b.provider)
	keys[2], keys[3] = b.month.keys(b.provider)
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request context so a finished search does not cancel the write.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	for i, key := range keys {
		val := t.Prompt
		if i%2 == 1 {
			val = t.Completion
		}
		if val == 0 {
			continue
		}
		if err := store.IncrBy(ctx, key, val); err != nil {
			b.logger.Warn("Failed to persist completion budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Usage returns the cap and consumption of the current day or month.
func (b *BudgetTracker) Usage(p domusage.Period) (limit int64, used domusage.Tokens) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollAt(b.now())
	w := b.windowFor(p)
	return w.limit, w.used
}

// Remaining returns tokens left in the current day or month, -1 if unlimited.
func (b *BudgetTracker) Remaining(p domusage.Period) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollAt(b.now())
	return b.windowFor(p).remaining()
}

func (b *BudgetTracker) windowFor(p domusage.Period) *window {
	if p == domusage.PeriodDay {
		return &b.day
	}
	return &b.month
}

// Provider returns the provider the budget is kept for.
func (b *BudgetTracker) Provider() string { return b.provider }
