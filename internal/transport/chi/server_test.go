package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	domusage "github.com/kailas-cloud/catalogsearch/internal/domain/usage"
	gen "github.com/kailas-cloud/catalogsearch/internal/transport/generated"
	cataloguc "github.com/kailas-cloud/catalogsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/pattern"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/catalogsearch/internal/usecase/usage"
)

type fakeSource struct {
	products []product.Product
	err      error
}

func (f *fakeSource) Products(_ context.Context) ([]product.Product, error) {
	return f.products, f.err
}

func (f *fakeSource) Product(_ context.Context, id string) (product.Product, error) {
	if f.err != nil {
		return product.Product{}, f.err
	}
	for _, p := range f.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return product.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (f *fakeSource) Categories(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return product.Categories(f.products), nil
}

type fakeModel struct {
	ids []string
	err error
}

func (m *fakeModel) Interpret(_ context.Context, _ string, candidates []product.Product) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []product.Product
	for _, id := range m.ids {
		for _, p := range candidates {
			if p.ID() == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func testProducts() []product.Product {
	return []product.Product{
		product.New("1", "Running Shoes", "Trail runners", "shoes", 80, product.WithRating(4.5, 10)),
		product.New("2", "Dress Shoes", "Oxford", "shoes", 150, product.WithRating(3.0, 4)),
		product.New("3", "Headphones", "Wireless", "electronics", 49.99, product.WithImage("https://img/3.png")),
	}
}

type apiOpts struct {
	source    *fakeSource
	model     searchuc.Interpreter
	apiKeys   []string
	rateLimit int
	budget    usageuc.BudgetReader
}

func newTestAPI(t *testing.T, o apiOpts) http.Handler {
	t.Helper()
	if o.source == nil {
		o.source = &fakeSource{products: testProducts()}
	}
	catalog := cataloguc.New(o.source)
	search := searchuc.New(pattern.New(), o.model)
	health := healthuc.New(o.source, nil, nil)

	reg := prometheus.NewRegistry()
	server := NewServer(catalog, search, health, usageuc.New(o.budget), zap.NewNop()).
		WithSearchLimiter(NewSearchRateLimiter(o.rateLimit)).
		WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r := chi.NewRouter()
	r.Use(CORSMiddleware("*"))
	r.Use(BearerAuthMiddleware(o.apiKeys))
	return gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: InvalidParamHandler,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	return v
}

func ids(items []gen.Product) string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Id
	}
	return strings.Join(out, ",")
}

func TestListCatalog(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{}), "GET", "/api/v1/catalog", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[gen.CatalogResponse](t, rr)
	if !resp.Success || ids(resp.Products) != "1,2,3" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Products[0].Rating == nil || resp.Products[0].Rating.Rate != 4.5 {
		t.Errorf("rating lost: %+v", resp.Products[0])
	}
	if resp.Products[2].Rating != nil {
		t.Error("unrated product has a rating")
	}
	if resp.Products[0].Image != nil {
		t.Errorf("image without a URL: %q", *resp.Products[0].Image)
	}
}

func TestListCatalog_UpstreamFailure_502(t *testing.T) {
	src := &fakeSource{err: domain.NewUpstreamError("products", http.StatusInternalServerError)}
	rr := do(t, newTestAPI(t, apiOpts{source: src}), "GET", "/api/v1/catalog", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	resp := decode[gen.ErrorResponse](t, rr)
	if resp.Success || resp.Message != "Failed to load catalog" || resp.Code != gen.ErrorResponseCodeCatalogUnavailable {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListCatalog_UnexpectedError_500(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	rr := do(t, newTestAPI(t, apiOpts{source: src}), "GET", "/api/v1/catalog", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp := decode[gen.ErrorResponse](t, rr); resp.Message != "internal error" {
		t.Errorf("internal detail leaked: %+v", resp)
	}
}

func TestGetCatalogProduct(t *testing.T) {
	api := newTestAPI(t, apiOpts{})

	rr := do(t, api, "GET", "/api/v1/catalog/3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[gen.ProductResponse](t, rr)
	if resp.Product.Id != "3" || resp.Product.Image == nil || *resp.Product.Image != "https://img/3.png" {
		t.Errorf("resp = %+v", resp)
	}

	rr = do(t, api, "GET", "/api/v1/catalog/999", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing: status = %d, want 404", rr.Code)
	}
	if resp := decode[gen.ErrorResponse](t, rr); resp.Message != "Not found" || resp.Success {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetCatalogProduct_UpstreamFailure_502(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("product: %w", domain.ErrCatalogUnavailable)}
	rr := do(t, newTestAPI(t, apiOpts{source: src}), "GET", "/api/v1/catalog/1", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if resp := decode[gen.ErrorResponse](t, rr); resp.Message != "Failed to load product" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListCategories(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{}), "GET", "/api/v1/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[gen.CategoriesResponse](t, rr)
	if strings.Join(resp.Categories, ",") != "shoes,electronics" {
		t.Errorf("categories = %v", resp.Categories)
	}

	empty := do(t, newTestAPI(t, apiOpts{source: &fakeSource{}}), "GET", "/api/v1/categories", "")
	if !strings.Contains(empty.Body.String(), `"categories":[]`) {
		t.Errorf("empty categories body = %s", empty.Body.String())
	}
}

func TestSearchCatalog_Tags(t *testing.T) {
	tests := []struct {
		name  string
		model searchuc.Interpreter
		body  string
		ids   string
		note  string
	}{
		{"no key", nil, `{"query":"shoes under $100"}`, "1", "fallback-no-key"},
		{"model served", &fakeModel{ids: []string{"3", "1"}}, `{"query":"gift"}`, "3,1", "model-served"},
		{"model error", &fakeModel{err: errors.New("timeout")}, `{"query":"over $100"}`, "2", "fallback-on-error"},
		{"model empty", &fakeModel{}, `{"query":"headphones"}`, "3", "fallback-empty"},
		{"browse", &fakeModel{ids: []string{"3"}}, `{"query":"  ","category":"shoes"}`, "1,2", "unfiltered"},
		{"category all", nil, `{"query":"","category":"all"}`, "1,2,3", "unfiltered"},
		{"missing fields", nil, `{}`, "1,2,3", "unfiltered"},
		{"empty body", &fakeModel{ids: []string{"3"}}, ``, "1,2,3", "unfiltered"},
		{"whitespace body", nil, "  \n", "1,2,3", "unfiltered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newTestAPI(t, apiOpts{model: tt.model}), "POST", "/api/v1/catalog/search", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
			}
			resp := decode[gen.SearchResponse](t, rr)
			if !resp.Success || ids(resp.Products) != tt.ids || resp.Note != tt.note {
				t.Errorf("got ids=%q note=%q, want ids=%q note=%q", ids(resp.Products), resp.Note, tt.ids, tt.note)
			}
		})
	}
}

func TestSearchCatalog_CatalogDown_EmptyNot5xx(t *testing.T) {
	src := &fakeSource{err: domain.ErrCatalogUnavailable}
	rr := do(t, newTestAPI(t, apiOpts{source: src}), "POST", "/api/v1/catalog/search", `{"query":"shoes"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"products":[]`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestSearchCatalog_BadRequests(t *testing.T) {
	api := newTestAPI(t, apiOpts{})
	long := strings.Repeat("a", 1025)

	for name, body := range map[string]string{
		"malformed":    `{"query":`,
		"wrong type":   `{"query":42}`,
		"too long":     `{"query":"` + long + `"}`,
		"unterminated": `{"query":"shoes"`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := do(t, api, "POST", "/api/v1/catalog/search", body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if resp := decode[gen.ErrorResponse](t, rr); resp.Success {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestSearchCatalog_RateLimited(t *testing.T) {
	api := newTestAPI(t, apiOpts{rateLimit: 1})

	if rr := do(t, api, "POST", "/api/v1/catalog/search", `{"query":"shoes"}`); rr.Code != http.StatusOK {
		t.Fatalf("first: %d", rr.Code)
	}
	rr := do(t, api, "POST", "/api/v1/catalog/search", `{"query":"shoes"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got %d, want 429", rr.Code)
	}
	// other routes are not limited
	if rr := do(t, api, "GET", "/api/v1/catalog", ""); rr.Code != http.StatusOK {
		t.Fatalf("catalog: %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{}), "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[gen.HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["catalog"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}

	down := do(t, newTestAPI(t, apiOpts{source: &fakeSource{err: domain.ErrCatalogUnavailable}}), "GET", "/health", "")
	if down.Code != http.StatusServiceUnavailable {
		t.Errorf("catalog down: status = %d, want 503", down.Code)
	}
}

func TestAuth_ProtectsAPIButNotHealth(t *testing.T) {
	api := newTestAPI(t, apiOpts{apiKeys: []string{"secret"}})

	if rr := do(t, api, "GET", "/api/v1/catalog", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("catalog without key: %d", rr.Code)
	}
	if rr := do(t, api, "GET", "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health: %d", rr.Code)
	}
	if rr := do(t, api, "GET", "/metrics", ""); rr.Code != http.StatusOK {
		t.Errorf("metrics: %d", rr.Code)
	}
}

func TestPreflight(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{apiKeys: []string{"secret"}}), http.MethodOptions, "/api/v1/catalog/search", "")
	if rr.Code != http.StatusOK {
		t.Errorf("preflight: %d", rr.Code)
	}
}

type fakeBudget struct{}

func (fakeBudget) Provider() string { return "openai" }

// Usage spends the daily cap and runs an unlimited month.
func (fakeBudget) Usage(p domusage.Period) (int64, domusage.Tokens) {
	if p == domusage.PeriodDay {
		return 1000, domusage.Tokens{Prompt: 850, Completion: 150}
	}
	return 0, domusage.Tokens{Prompt: 3600, Completion: 600}
}

func TestGetUsage_NoBudget(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{}), "GET", "/api/v1/usage", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	resp := decode[gen.UsageResponse](t, rr)
	if resp.Period != gen.UsageResponsePeriodMonth || resp.Provider != nil {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Budget.TokensLimit != 0 || resp.Budget.ResetsAt != nil || *resp.Budget.IsExhausted {
		t.Errorf("budget = %+v, want unlimited", resp.Budget)
	}
}

func TestGetUsage_DailyExhausted(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{budget: fakeBudget{}}), "GET", "/api/v1/usage?period=day", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	resp := decode[gen.UsageResponse](t, rr)
	if resp.Period != gen.UsageResponsePeriodDay || resp.Usage.Tokens != 1000 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Usage.PromptTokens != 850 || resp.Usage.CompletionTokens != 150 {
		t.Errorf("split = %+v", resp.Usage)
	}
	if resp.Provider == nil || *resp.Provider != "openai" {
		t.Errorf("provider = %v", resp.Provider)
	}
	if !*resp.Budget.IsExhausted || resp.Budget.ResetsAt == nil {
		t.Errorf("budget = %+v", resp.Budget)
	}
	if !resp.Budget.ResetsAt.Equal(*resp.PeriodEndAt) {
		t.Errorf("resets_at = %v, period end = %v", resp.Budget.ResetsAt, resp.PeriodEndAt)
	}
}

func TestGetUsage_MonthlyUnlimited(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{budget: fakeBudget{}}), "GET", "/api/v1/usage?period=month", "")
	resp := decode[gen.UsageResponse](t, rr)
	if resp.Usage.Tokens != 4200 || resp.Budget.TokensLimit != 0 || *resp.Budget.IsExhausted {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetUsage_InvalidPeriod(t *testing.T) {
	rr := do(t, newTestAPI(t, apiOpts{}), "GET", "/api/v1/usage?period=week", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decode[gen.ErrorResponse](t, rr); resp.Code != gen.ErrorResponseCodeValidationFailed {
		t.Errorf("code = %q", resp.Code)
	}
}
