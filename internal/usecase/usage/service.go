package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
)

// Service reports completion token usage.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil when no budget is tracked; reports
// then show zero usage and an unlimited budget.
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now()
	var start, end time.Time
	var limit int64
	var used domusage.Tokens
	var provider string

	if period == domusage.PeriodDay {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
	} else {
		period = domusage.PeriodMonth
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}
	if s.br != nil {
		provider = s.br.Provider()
		limit, used = s.br.Usage(period)
	}

	b := domusage.NewBudget(limit, limit-used.Total(), end.UnixMilli())
	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), provider, used, b)
}
