// Package usage describes completion token consumption against the
// configured budget.
package usage

import "fmt"

// Period is the aggregation granularity.
type Period string

// Aggregation periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query value to a Period. Empty selects PeriodMonth.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodMonth:
		return PeriodMonth, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day or month)", s)
	}
}

// Tokens splits consumption into the prompt sent and the completion
// received. Providers price the two differently.
type Tokens struct {
	Prompt     int64
	Completion int64
}

// Total is what the budget is charged.
func (t Tokens) Total() int64 { return t.Prompt + t.Completion }

// Add returns the sum of t and o.
func (t Tokens) Add(o Tokens) Tokens {
	return Tokens{Prompt: t.Prompt + o.Prompt, Completion: t.Completion + o.Completion}
}

// Budget is a snapshot of one period's token cap. A zero limit means unlimited.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	resetsAt        int64 // unix millis
}

// NewBudget creates a Budget snapshot. remaining is ignored when limit is 0.
func NewBudget(limit, remaining, resetsAt int64) Budget {
	if limit <= 0 {
		return Budget{resetsAt: resetsAt}
	}
	if remaining < 0 {
		remaining = 0
	}
	return Budget{tokensLimit: limit, tokensRemaining: remaining, resetsAt: resetsAt}
}

// TokensLimit returns the token cap (0 = unlimited).
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left.
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// Unlimited reports whether no cap is configured.
func (b Budget) Unlimited() bool { return b.tokensLimit == 0 }

// IsExhausted reports whether the cap is spent.
func (b Budget) IsExhausted() bool { return b.tokensLimit > 0 && b.tokensRemaining == 0 }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }

// Report is the completion usage for one period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	tokens      Tokens
	budget      Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, provider string, tokens Tokens, b Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		tokens:      tokens,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the completion provider name, empty when none is configured.
func (r *Report) Provider() string { return r.provider }

// TokensUsed returns the tokens consumed in the period.
func (r *Report) TokensUsed() int64 { return r.tokens.Total() }

// Tokens returns the prompt/completion split of TokensUsed.
func (r *Report) Tokens() Tokens { return r.tokens }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
