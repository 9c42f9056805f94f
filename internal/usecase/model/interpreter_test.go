package model

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

type mockCompleter struct {
	text string
	err  error
	got  domain.CompletionRequest
	// block waits for the context to finish before returning.
	block bool
	calls int
}

func (m *mockCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	m.calls++
	m.got = req
	if m.block {
		<-ctx.Done()
		return domain.CompletionResult{}, ctx.Err()
	}
	if m.err != nil {
		return domain.CompletionResult{}, m.err
	}
	return domain.CompletionResult{Text: m.text}, nil
}

func candidates() []product.Product {
	return []product.Product{
		product.New("1", "Running Shoes", "Trail runner", "shoes", 80, product.WithRating(4.5, 10)),
		product.New("2", "Dress Shoes", "Leather oxford", "shoes", 150, product.WithRating(3.0, 10)),
		product.New("3", "USB Cable", "Braided", "electronics", 9.5, product.WithImage("https://img/3.png")),
	}
}

func ids(items []product.Product) string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return strings.Join(out, ",")
}

func TestInterpret_ResolvesIDsInModelOrder(t *testing.T) {
	m := &mockCompleter{text: `{"ids":[3,1]}`}
	got, err := New(m, Config{}).Interpret(context.Background(), "cable or running shoes", candidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids(got) != "3,1" {
		t.Errorf("got %q, want %q", ids(got), "3,1")
	}
}

func TestInterpret_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{name: "single id", text: `{"ids":[2]}`, want: "2"},
		{name: "string ids", text: `{"ids":["2","1"]}`, want: "2,1"},
		{name: "float ids", text: `{"ids":[2.0]}`, want: "2"},
		{name: "surrounding whitespace", text: "\n  {\"ids\":[1]}  \n", want: "1"},
		{name: "code fence", text: "```json\n{\"ids\":[1]}\n```", want: "1"},
		{name: "unknown ids dropped", text: `{"ids":[42,1]}`, want: "1"},
		{name: "duplicates dropped", text: `{"ids":[1,1,"1"]}`, want: "1"},
		{name: "empty list", text: `{"ids":[]}`, want: ""},
		{name: "all unknown", text: `{"ids":[7,8]}`, want: ""},
		{name: "prose", text: "Here are the products: 1 and 2", wantErr: domain.ErrMalformedModelOutput},
		{name: "missing ids", text: `{"products":[1]}`, wantErr: domain.ErrMalformedModelOutput},
		{name: "null ids", text: `{"ids":null}`, wantErr: domain.ErrMalformedModelOutput},
		{name: "ids not array", text: `{"ids":"1,2"}`, wantErr: domain.ErrMalformedModelOutput},
		{name: "object id", text: `{"ids":[{"id":1}]}`, wantErr: domain.ErrMalformedModelOutput},
		{name: "trailing commentary", text: `{"ids":[1]} hope this helps`, wantErr: domain.ErrMalformedModelOutput},
		{name: "empty", text: "   ", wantErr: domain.ErrMalformedModelOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(&mockCompleter{text: tt.text}, Config{}).
				Interpret(context.Background(), "shoes", candidates())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ids(got) != tt.want {
				t.Errorf("got %q, want %q", ids(got), tt.want)
			}
		})
	}
}

func TestInterpret_ProviderError(t *testing.T) {
	m := &mockCompleter{err: errors.New("connection refused")}
	_, err := New(m, Config{}).Interpret(context.Background(), "shoes", candidates())
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Fatalf("err = %v, want ErrCompletionProviderError", err)
	}
}

func TestInterpret_ProviderErrorNotDoubleWrapped(t *testing.T) {
	inner := errors.Join(domain.ErrCompletionProviderError, errors.New("status 503"))
	_, err := New(&mockCompleter{err: inner}, Config{}).Interpret(context.Background(), "shoes", candidates())
	if err != inner {
		t.Errorf("err = %v, want provider error returned as is", err)
	}
}

func TestInterpret_Timeout(t *testing.T) {
	m := &mockCompleter{block: true}
	start := time.Now()
	_, err := New(m, Config{Timeout: 20 * time.Millisecond}).Interpret(context.Background(), "shoes", candidates())
	if !errors.Is(err, domain.ErrCompletionProviderError) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want wrapped deadline exceeded", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout not enforced")
	}
}

func TestInterpret_CallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(&mockCompleter{block: true}, Config{}).Interpret(ctx, "shoes", candidates())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestInterpret_Request(t *testing.T) {
	m := &mockCompleter{text: `{"ids":[]}`}
	_, err := New(m, Config{}).Interpret(context.Background(), "cheap cable", candidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.got.MaxTokens != DefaultMaxTokens || m.got.Temperature != DefaultTemperature {
		t.Errorf("decoding = %d/%v", m.got.MaxTokens, m.got.Temperature)
	}
	if !strings.Contains(m.got.System, `{"ids"`) {
		t.Error("system instruction must mandate the ids object")
	}
	if !strings.HasPrefix(m.got.User, "User query: \"cheap cable\"\nCatalog: [") {
		t.Errorf("user message = %q", m.got.User)
	}
	if !strings.Contains(m.got.User, `"currency":"USD"`) {
		t.Error("projection must carry currency")
	}
	if strings.Contains(m.got.User, "img/3.png") {
		t.Error("projection must not forward images")
	}
	if strings.Contains(m.got.User, `"id":"3","title":"USB Cable","description":"Braided","category":"electronics","price":9.5,"rating"`) {
		t.Error("absent rating must be omitted from the projection")
	}
}

func TestNew_KeepsExplicitConfig(t *testing.T) {
	m := &mockCompleter{text: `{"ids":[]}`}
	temp := float32(0.7)
	_, _ = New(m, Config{MaxTokens: 64, Temperature: &temp}).Interpret(context.Background(), "x", nil)
	if m.got.MaxTokens != 64 || m.got.Temperature != 0.7 {
		t.Errorf("decoding = %d/%v", m.got.MaxTokens, m.got.Temperature)
	}
}

func TestNew_ZeroTemperatureIsKept(t *testing.T) {
	m := &mockCompleter{text: `{"ids":[]}`}
	var zero float32
	_, _ = New(m, Config{Temperature: &zero}).Interpret(context.Background(), "x", nil)
	if m.got.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", m.got.Temperature)
	}
}

func TestCanonicalID(t *testing.T) {
	tests := map[string]string{
		"2":    "2",
		"2.0":  "2",
		" 2 ":  "2",
		"2.50": "2.5",
		"abc":  "abc",
		"Inf":  "Inf",
	}
	for in, want := range tests {
		if got := canonicalID(in); got != want {
			t.Errorf("canonicalID(%q) = %q, want %q", in, got, want)
		}
	}
}
