package catalogsearch

import (
	"context"
	"fmt"
	"time"

	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
)

// UsageReport is the completion token consumption for one period.
type UsageReport struct {
	Period           string // "day" or "month"
	Provider         string // empty without a model interpreter budget
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TokensUsed       int64 // PromptTokens + CompletionTokens
	PromptTokens     int64
	CompletionTokens int64
	TokensLimit      int64 // 0 = unlimited
	TokensRemaining  int64
	Exhausted        bool
}

// Usage reports completion token usage for period ("day", "month" or ""
// for month). Tokens are only counted when WithCompletionBudget is set.
func (c *Client) Usage(ctx context.Context, period string) (_ UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.call("usage", start, err, "period", period) }()

	p, err := domusage.ParsePeriod(period)
	if err != nil {
		return UsageReport{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	r := c.usageSvc.GetReport(ctx, p)
	b := r.Budget()
	return UsageReport{
		Period:           string(r.Period()),
		Provider:         r.Provider(),
		PeriodStart:      time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEnd:        time.UnixMilli(r.PeriodEnd()).UTC(),
		TokensUsed:       r.TokensUsed(),
		PromptTokens:     r.Tokens().Prompt,
		CompletionTokens: r.Tokens().Completion,
		TokensLimit:      b.TokensLimit(),
		TokensRemaining:  b.TokensRemaining(),
		Exhausted:        b.IsExhausted(),
	}, nil
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}
