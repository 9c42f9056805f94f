package product

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	p := New("1", "Running Shoes", "Light trail shoes", "shoes", 80,
		WithRating(4.5, 120), WithImage("https://img/1.png"))

	if p.ID() != "1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.Title() != "Running Shoes" {
		t.Errorf("Title() = %q", p.Title())
	}
	if p.Category() != "shoes" {
		t.Errorf("Category() = %q", p.Category())
	}
	if p.Price() != 80 {
		t.Errorf("Price() = %f", p.Price())
	}
	if p.Image() != "https://img/1.png" {
		t.Errorf("Image() = %q", p.Image())
	}
	if r := p.Rating(); r == nil || r.Rate != 4.5 || r.Count != 120 {
		t.Errorf("Rating() = %+v", r)
	}
	if p.RatingRate() != 4.5 {
		t.Errorf("RatingRate() = %f", p.RatingRate())
	}
}

func TestRatingRate_AbsentIsZero(t *testing.T) {
	p := New("2", "Dress Shoes", "", "shoes", 150)
	if p.Rating() != nil {
		t.Errorf("Rating() = %+v, want nil", p.Rating())
	}
	if p.RatingRate() != 0 {
		t.Errorf("RatingRate() = %f, want 0", p.RatingRate())
	}
}

func TestRating_ReturnsCopy(t *testing.T) {
	p := New("1", "a", "", "c", 1, WithRating(3, 1))
	r := p.Rating()
	r.Rate = 5
	if p.RatingRate() != 3 {
		t.Errorf("mutating returned rating changed product: %f", p.RatingRate())
	}
}

func TestSearchText(t *testing.T) {
	p := New("1", "Running Shoes", "Light TRAIL", "Shoes", 80)
	if got := p.SearchText(); got != "running shoes light trail shoes" {
		t.Errorf("SearchText() = %q", got)
	}
}

func TestProject(t *testing.T) {
	p := New("7", "Ring", "Gold ring", "jewelery", 9.99, WithRating(3.9, 70), WithImage("x"))

	data, err := json.Marshal(p.Project())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	want := `{"id":"7","title":"Ring","description":"Gold ring","category":"jewelery","price":9.99,"rating":3.9,"currency":"USD"}`
	if got != want {
		t.Errorf("projection:\ngot:  %s\nwant: %s", got, want)
	}
	if strings.Contains(got, "image") {
		t.Error("projection must not carry the image")
	}
}

func TestProject_NoRating(t *testing.T) {
	p := New("8", "Mug", "", "home", 5)
	data, err := json.Marshal(p.Project())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "rating") {
		t.Errorf("projection without rating = %s", data)
	}
}

func TestInCategory(t *testing.T) {
	items := []Product{
		New("1", "a", "", "electronics", 1),
		New("2", "b", "", "jewelery", 1),
		New("3", "c", "", "electronics", 1),
	}
	got := InCategory(items, "electronics")
	if len(got) != 2 || got[0].ID() != "1" || got[1].ID() != "3" {
		t.Errorf("InCategory = %v", ids(got))
	}
	if got := InCategory(items, "books"); len(got) != 0 {
		t.Errorf("InCategory(books) = %v", ids(got))
	}
}

func TestCategories(t *testing.T) {
	items := []Product{
		New("1", "a", "", "electronics", 1),
		New("2", "b", "", "jewelery", 1),
		New("3", "c", "", "electronics", 1),
	}
	got := Categories(items)
	if len(got) != 2 || got[0] != "electronics" || got[1] != "jewelery" {
		t.Errorf("Categories = %v", got)
	}
}

func ids(items []Product) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}
