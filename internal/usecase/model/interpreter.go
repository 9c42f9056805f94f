// Package model interprets shopping queries with a remote completion provider.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// Decoding defaults: a short, near-deterministic answer.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.2
	DefaultTimeout     = 20 * time.Second
)

// Config bounds a single completion call. A nil Temperature takes the
// default; 0 asks for greedy decoding.
type Config struct {
	MaxTokens   int
	Temperature *float32
	Timeout     time.Duration
}

// Interpreter asks the completion provider which candidates satisfy a query.
type Interpreter struct {
	completer   Completer
	cfg         Config
	temperature float32
}

// New creates a model interpreter. Zero MaxTokens and Timeout and a nil
// Temperature take the defaults.
func New(completer Completer, cfg Config) *Interpreter {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	temperature := float32(DefaultTemperature)
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Interpreter{completer: completer, cfg: cfg, temperature: temperature}
}

// Interpret returns the candidates the model selected, in the model's order.
// Unknown and repeated ids are dropped; an empty slice is a valid answer.
// Provider failures wrap domain.ErrCompletionProviderError and unparsable
// answers wrap domain.ErrMalformedModelOutput.
func (i *Interpreter) Interpret(
	ctx context.Context, query string, candidates []product.Product,
) ([]product.Product, error) {
	user, err := userMessage(query, candidates)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	res, err := i.completer.Complete(ctx, domain.CompletionRequest{
		System:      systemInstruction,
		User:        user,
		MaxTokens:   i.cfg.MaxTokens,
		Temperature: i.temperature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCompletionProviderError) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionProviderError, err)
	}

	ids, err := parseIDs(res.Text)
	if err != nil {
		return nil, err
	}
	return resolve(ids, candidates), nil
}

func resolve(ids []string, candidates []product.Product) []product.Product {
	index := make(map[string]int, len(candidates))
	for idx := range candidates {
		key := canonicalID(candidates[idx].ID())
		if _, ok := index[key]; !ok {
			index[key] = idx
		}
	}

	out := make([]product.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idx, ok := index[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, candidates[idx])
	}
	return out
}
