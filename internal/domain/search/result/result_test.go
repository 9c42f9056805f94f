package result

import (
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

func TestNew(t *testing.T) {
	items := []product.Product{product.New("1", "a", "", "c", 1)}
	r := New(items, ModelServed)

	if r.Tag() != ModelServed {
		t.Errorf("Tag() = %q", r.Tag())
	}
	if r.Len() != 1 || r.Items()[0].ID() != "1" {
		t.Errorf("Items() = %v", r.Items())
	}
}

func TestNew_NilItemsBecomeEmpty(t *testing.T) {
	r := New(nil, FallbackEmpty)
	if r.Items() == nil {
		t.Error("Items() = nil, want empty slice")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestTag_IsValid(t *testing.T) {
	for _, tag := range []Tag{ModelServed, FallbackNoKey, FallbackOnError, FallbackEmpty, Unfiltered} {
		if !tag.IsValid() {
			t.Errorf("%q should be valid", tag)
		}
	}
	if Tag("fallback").IsValid() {
		t.Error(`"fallback" should be invalid`)
	}
}

func TestTag_IsFallback(t *testing.T) {
	tests := []struct {
		tag  Tag
		want bool
	}{
		{ModelServed, false},
		{Unfiltered, false},
		{FallbackNoKey, true},
		{FallbackOnError, true},
		{FallbackEmpty, true},
	}
	for _, tt := range tests {
		if got := tt.tag.IsFallback(); got != tt.want {
			t.Errorf("%q.IsFallback() = %v, want %v", tt.tag, got, tt.want)
		}
	}
}
