package completion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(t domusage.Tokens)
	Remaining(p domusage.Period) int64
}

// InstrumentedCompleter wraps a Completer with budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded by the
// provider transports; this layer owns the budget metrics.
type InstrumentedCompleter struct {
	inner    domain.Completer
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps inner. budget may be nil (no cap).
func NewInstrumentedCompleter(
	inner domain.Completer, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Complete checks the budget, delegates to the inner completer and records usage.
// A spent budget is reported as a provider error so the caller falls back.
func (c *InstrumentedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.CompletionResult, error) {
	if c.budget != nil {
		if err := c.budget.Check(ctx); err != nil {
			metrics.CompletionBudgetRejectedTotal.WithLabelValues(c.provider).Inc()
			c.logger.Warn("Completion budget exceeded",
				zap.String("provider", c.provider),
				zap.String("model", c.model),
				zap.Error(err),
			)
			return domain.CompletionResult{}, fmt.Errorf("%w: budget check: %w", domain.ErrCompletionProviderError, err)
		}
	}

	start := time.Now()
	res, err := c.inner.Complete(ctx, req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("Completion request failed",
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, err
	}

	c.recordBudget(domusage.Tokens{Prompt: int64(res.PromptTokens), Completion: int64(res.CompletionTokens)})

	c.logger.Debug("Completion request completed",
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
	)
	return res, nil
}

func (c *InstrumentedCompleter) recordBudget(t domusage.Tokens) {
	if c.budget == nil || t.Total() <= 0 {
		return
	}
	c.budget.Record(t)
	remaining := metrics.CompletionBudgetTokensRemaining
	remaining.WithLabelValues(c.provider, "daily").Set(float64(c.budget.Remaining(domusage.PeriodDay)))
	remaining.WithLabelValues(c.provider, "monthly").Set(float64(c.budget.Remaining(domusage.PeriodMonth)))
}
