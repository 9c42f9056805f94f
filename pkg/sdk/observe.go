package catalogsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const sdkSubsystem = "sdk"

// sdkMetrics are the collectors registered on the caller's registry.
// Searches get their own series labelled by note, so a dashboard can show how
// often the model answered versus a fallback path.
type sdkMetrics struct {
	calls    *prometheus.CounterVec   // call, outcome
	latency  *prometheus.HistogramVec // call
	searches *prometheus.CounterVec   // note
	results  prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	var (
		m   sdkMetrics
		err error
	)
	if m.calls, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogsearch",
		Subsystem: sdkSubsystem,
		Name:      "calls_total",
		Help:      "SDK calls by method and outcome (ok or error).",
	}, []string{"call", "outcome"})); err != nil {
		return nil, err
	}
	if m.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogsearch",
		Subsystem: sdkSubsystem,
		Name:      "call_duration_seconds",
		Help:      "SDK call latency in seconds.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"call"})); err != nil {
		return nil, err
	}
	if m.searches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogsearch",
		Subsystem: sdkSubsystem,
		Name:      "searches_total",
		Help:      "Answered searches by the path that served them.",
	}, []string{"note"})); err != nil {
		return nil, err
	}
	if m.results, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "catalogsearch",
		Subsystem: sdkSubsystem,
		Name:      "search_results",
		Help:      "Products returned per answered search.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})); err != nil {
		return nil, err
	}
	return &m, nil
}

// register adds c to reg, or hands back the collector already registered
// under the same descriptor so two clients can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("catalogsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("catalogsearch: metric already registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer logs and measures client calls. A nil observer, nil logger or
// nil metrics each switch off their part.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// call records a non-search client method. attrs are extra slog pairs for
// the success line.
func (o *observer) call(name string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	o.count(name, dur, err)

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("catalogsearch call failed", "call", name, "duration", dur, "error", err)
		return
	}
	o.logger.Debug("catalogsearch call", append([]any{"call", name, "duration", dur}, attrs...)...)
}

// search records one Search call. Only answered searches carry a note; an
// invalid request is counted as an error of the call alone.
func (o *observer) search(ctx context.Context, start time.Time, res *SearchResult, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	o.count("search", dur, err)

	if err == nil && o.metrics != nil {
		o.metrics.searches.WithLabelValues(string(res.Note)).Inc()
		o.metrics.results.Observe(float64(len(res.Products)))
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("catalogsearch search rejected", "duration", dur, "error", err)
		return
	}
	level := slog.LevelDebug
	if res.Note == NoteFallbackOnError {
		level = slog.LevelInfo
	}
	o.logger.Log(ctx, level, "catalogsearch search",
		"note", res.Note,
		"results", len(res.Products),
		"duration", dur,
	)
}

func (o *observer) count(name string, dur time.Duration, err error) {
	if o.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.metrics.calls.WithLabelValues(name, outcome).Inc()
	o.metrics.latency.WithLabelValues(name).Observe(dur.Seconds())
}
