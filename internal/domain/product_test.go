package domain

import (
	"strings"
	"testing"
)

func validCreateRequest() CreateProductRequest {
	price := 19.99
	stock := 5
	return CreateProductRequest{
		Code:        "abc-1",
		Title:       "Cordless Drill",
		Description: "A compact cordless drill with two batteries.",
		Price:       &price,
		Stock:       &stock,
		Category:    "tools",
	}
}

func TestNewProductNormalizes(t *testing.T) {
	p := NewProduct(validCreateRequest())

	if p.Code != "ABC-1" {
		t.Fatalf("code not normalized: %q", p.Code)
	}
	if p.Title != "CORDLESS DRILL" {
		t.Fatalf("title not normalized: %q", p.Title)
	}
	if p.Category != "TOOLS" {
		t.Fatalf("category not normalized: %q", p.Category)
	}
	if !p.Status {
		t.Fatalf("status should default to true")
	}
	if p.ID == "" {
		t.Fatalf("id should be generated")
	}
	if p.Thumbnails == nil {
		t.Fatalf("thumbnails should default to empty slice")
	}
}

func TestProductValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Product)
	}{
		{"short code", func(p *Product) { p.Code = "AB" }},
		{"long code", func(p *Product) { p.Code = strings.Repeat("X", 21) }},
		{"short title", func(p *Product) { p.Title = "AB" }},
		{"short description", func(p *Product) { p.Description = "too short" }},
		{"negative price", func(p *Product) { p.Price = -1 }},
		{"negative stock", func(p *Product) { p.Stock = -1 }},
		{"short category", func(p *Product) { p.Category = "AB" }},
		{"bad thumbnail", func(p *Product) { p.Thumbnails = []string{"not-a-url"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProduct(validCreateRequest())
			tc.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !IsKind(err, KindValidation) {
				t.Fatalf("expected validation kind, got %v", KindOf(err))
			}
		})
	}

	p := NewProduct(validCreateRequest())
	p.Thumbnails = []string{"https://example.com/a.png", "ftp://example.com/b.png"}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyUpdateKeepsOmittedFields(t *testing.T) {
	p := NewProduct(validCreateRequest())

	title := "impact driver deluxe"
	merged := p.ApplyUpdate(UpdateProductRequest{Title: &title})

	if merged.Title != "IMPACT DRIVER DELUXE" {
		t.Fatalf("title not replaced: %q", merged.Title)
	}
	if merged.Code != p.Code || merged.Price != p.Price || merged.Stock != p.Stock {
		t.Fatalf("omitted fields changed: %+v", merged)
	}
	if merged.ID != p.ID {
		t.Fatalf("id must never change on update")
	}
}

func TestValidateProductID(t *testing.T) {
	if err := ValidateProductID("not-a-uuid"); !IsKind(err, KindInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	p := NewProduct(validCreateRequest())
	if err := ValidateProductID(p.ID); err != nil {
		t.Fatalf("generated id should be valid: %v", err)
	}
}
