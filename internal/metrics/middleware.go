package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route claimed, so scanners hitting random
// paths collapse into one series.
const unmatchedRoute = "unmatched"

// HTTP API Prometheus metrics. The route label is the chi pattern
// (/api/v1/catalog/{id}), never the raw path.
var (
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds by route",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_in_flight",
			Help:      "API requests currently being served",
		},
	)
)

var apiMetricsRegistered bool

// RegisterAPIMetrics registers the HTTP API metrics. Must be called once from main.
func RegisterAPIMetrics() {
	if apiMetricsRegistered {
		return
	}
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(APIRequestsInFlight)
	apiMetricsRegistered = true
}

// Middleware times every API request under its route pattern. Paths in skip
// (the scrape endpoint, typically) are served but not recorded.
func Middleware(skip ...string) func(next http.Handler) http.Handler {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipped[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			APIRequestsInFlight.Inc()
			defer APIRequestsInFlight.Dec()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			APIRequestDuration.
				WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel reads the matched pattern after routing has run. Outside a chi
// router, or when nothing matched, it is unmatchedRoute.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
