package usage

import domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"

// BudgetReader provides read-only access to the completion token budget.
type BudgetReader interface {
	Provider() string
	// Usage returns the cap (0 = unlimited) and the tokens consumed in the
	// current day or month.
	Usage(p domusage.Period) (limit int64, used domusage.Tokens)
}
