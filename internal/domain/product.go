package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var thumbnailPattern = regexp.MustCompile(`^(ftp|http|https)://[^ "]+$`)

type Product struct {
	ID          string    `dynamodbav:"id"          json:"id"`
	Code        string    `dynamodbav:"code"        json:"code"`
	Title       string    `dynamodbav:"title"       json:"title"`
	Description string    `dynamodbav:"description" json:"description"`
	Price       float64   `dynamodbav:"price"       json:"price"`
	Stock       int       `dynamodbav:"stock"       json:"stock"`
	Status      bool      `dynamodbav:"status"      json:"status"`
	Category    string    `dynamodbav:"category"    json:"category"`
	Thumbnails  []string  `dynamodbav:"thumbnails"  json:"thumbnails"`
	CreatedAt   time.Time `dynamodbav:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"  json:"updated_at"`
}

type CreateProductRequest struct {
	Code        string   `json:"code"        binding:"required"`
	Title       string   `json:"title"       binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price"       binding:"required"`
	Stock       *int     `json:"stock"       binding:"required"`
	Status      *bool    `json:"status"`
	Category    string   `json:"category"    binding:"required"`
	Thumbnails  []string `json:"thumbnails"`
}

// UpdateProductRequest carries a partial update; nil fields keep the
// stored value.
type UpdateProductRequest struct {
	Code        *string  `json:"code"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Status      *bool    `json:"status"`
	Category    *string  `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

type ProductFilter struct {
	Title    string
	Category string
	Status   *bool
}

type ProductPage struct {
	Products   []*Product `json:"products"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// NormalizeCode brings a product code or order SKU into its canonical
// uppercase form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NewProduct builds a normalized product record from a create request.
// The internal id is always server-generated.
func NewProduct(req CreateProductRequest) *Product {
	status := true
	if req.Status != nil {
		status = *req.Status
	}
	price := 0.0
	if req.Price != nil {
		price = *req.Price
	}
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	thumbnails := req.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	now := time.Now().UTC()
	return &Product{
		ID:          uuid.NewString(),
		Code:        NormalizeCode(req.Code),
		Title:       normalizeUpper(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Stock:       stock,
		Status:      status,
		Category:    normalizeUpper(req.Category),
		Thumbnails:  thumbnails,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdate merges a partial update into a copy of p, normalizing the
// replaced fields.
func (p *Product) ApplyUpdate(req UpdateProductRequest) *Product {
	merged := *p
	if req.Code != nil {
		merged.Code = NormalizeCode(*req.Code)
	}
	if req.Title != nil {
		merged.Title = normalizeUpper(*req.Title)
	}
	if req.Description != nil {
		merged.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		merged.Price = *req.Price
	}
	if req.Stock != nil {
		merged.Stock = *req.Stock
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}
	if req.Category != nil {
		merged.Category = normalizeUpper(*req.Category)
	}
	if req.Thumbnails != nil {
		merged.Thumbnails = req.Thumbnails
	}
	merged.UpdatedAt = time.Now().UTC()
	return &merged
}

func (p *Product) Validate() error {
	if n := len(p.Code); n < 3 || n > 20 {
		return NewError(KindValidation, "code must be 3-20 characters")
	}
	if n := len(p.Title); n < 3 || n > 100 {
		return NewError(KindValidation, "title must be 3-100 characters")
	}
	if n := len(p.Description); n < 10 || n > 1000 {
		return NewError(KindValidation, "description must be 10-1000 characters")
	}
	if p.Price < 0 {
		return NewError(KindValidation, "price must not be negative")
	}
	if p.Stock < 0 {
		return NewError(KindValidation, "stock must not be negative")
	}
	if n := len(p.Category); n < 3 || n > 50 {
		return NewError(KindValidation, "category must be 3-50 characters")
	}
	for _, url := range p.Thumbnails {
		if !thumbnailPattern.MatchString(url) {
			return Errorf(KindValidation, "thumbnail %q is not a valid URL", url)
		}
	}
	return nil
}

// ValidateProductID checks the internal product id format. Product ids
// are server-generated UUIDs.
func ValidateProductID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return Errorf(KindInvalidID, "malformed product id %q", id)
	}
	return nil
}
