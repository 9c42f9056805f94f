package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	gen "github.com/kailas-cloud/catalogsearch/internal/transport/generated"
	cataloguc "github.com/kailas-cloud/catalogsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/catalogsearch/internal/usecase/usage"
)

const maxSearchBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface on top of the use case services.
type Server struct {
	catalog       *cataloguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	limiter       *SearchRateLimiter
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	usage *usageuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog: catalog,
		search:  search,
		health:  health,
		usage:   usage,
		metrics: promhttp.Handler(),
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound, "Not found"),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, ""),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, gen.ErrorResponseCodeRateLimited, ""),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusBadGateway, gen.ErrorResponseCodeCatalogUnavailable, ""),
	}
	return s
}

// WithSearchLimiter limits POST /api/v1/catalog/search per client address.
// A nil limiter leaves search unlimited.
func (s *Server) WithSearchLimiter(l *SearchRateLimiter) *Server {
	s.limiter = l
	return s
}

// WithMetricsHandler replaces the /metrics handler (tests use a private registry).
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metrics = h
	return s
}

// ListCatalog handles GET /api/v1/catalog.
func (s *Server) ListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, "Failed to load catalog")
		return
	}
	writeJSON(w, http.StatusOK, gen.CatalogResponse{Success: true, Products: productsToWire(items)})
}

// GetCatalogProduct handles GET /api/v1/catalog/{id}.
func (s *Server) GetCatalogProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err, "Failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, gen.ProductResponse{Success: true, Product: productToWire(&p)})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, "Failed to load categories")
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, gen.CategoriesResponse{Success: true, Categories: cats})
}

// SearchCatalog handles POST /api/v1/catalog/search. Only a malformed body
// or an over-long query is an error; catalog and model failures degrade to
// a tagged, possibly empty, result. An empty body reads as {}.
func (s *Server) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientAddr(r)) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, gen.ErrorResponseCodeRateLimited, "too many search requests")
		return
	}

	var body gen.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBodyBytes))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(deref(body.Query), deref(body.Category))
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	res := s.search.Search(ctx, s.catalog.Snapshot(ctx), req)
	writeJSON(w, http.StatusOK, gen.SearchResponse{
		Success:  true,
		Products: productsToWire(res.Items()),
		Note:     string(res.Tag()),
	})
}

// GetUsage handles GET /api/v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request, params gen.GetUsageParams) {
	var raw string
	if params.Period != nil {
		raw = string(*params.Period)
	}
	period, err := domusage.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	b := report.Budget()
	isExhausted := b.IsExhausted()
	start := time.UnixMilli(report.PeriodStart()).UTC()
	end := time.UnixMilli(report.PeriodEnd()).UTC()
	resp := gen.UsageResponse{
		Success:       true,
		Period:        gen.UsageResponsePeriod(report.Period()),
		PeriodStartAt: &start,
		PeriodEndAt:   &end,
		Usage: gen.UsageMetrics{
			Tokens:           report.TokensUsed(),
			PromptTokens:     report.Tokens().Prompt,
			CompletionTokens: report.Tokens().Completion,
		},
		Budget: gen.BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     &isExhausted,
		},
	}
	if p := report.Provider(); p != "" {
		resp.Provider = &p
	}
	if !b.Unlimited() {
		resetsAt := time.UnixMilli(b.ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// InvalidParamHandler answers path parameter binding failures.
func InvalidParamHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid parameter "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid request")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// A non-empty message replaces the operation message.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode, message string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		if message != "" {
			msg = message
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps err through the sentinel table. msg is the
// client-facing message for upstream failures; internals are only logged.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func productToWire(p *product.Product) gen.Product {
	out := gen.Product{
		Id:          p.ID(),
		Title:       p.Title(),
		Price:       p.Price(),
		Description: p.Description(),
		Category:    p.Category(),
	}
	if img := p.Image(); img != "" {
		out.Image = &img
	}
	if r := p.Rating(); r != nil {
		out.Rating = &gen.Rating{Rate: r.Rate, Count: r.Count}
	}
	return out
}

func productsToWire(items []product.Product) []gen.Product {
	out := make([]gen.Product, len(items))
	for i := range items {
		out[i] = productToWire(&items[i])
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
