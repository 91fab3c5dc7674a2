package models

import "math"

// CatalogFilters is the raw, loosely-typed filter bag read from the query string.
type CatalogFilters struct {
	Search      string `query:"search"`
	Category    string `query:"category"`
	MinPrice    string `query:"minPrice"`
	MaxPrice    string `query:"maxPrice"`
	HasDiscount string `query:"hasDiscount"`
	MinViews    string `query:"minViews"`
	MinRating   string `query:"minRating"`
	SortBy      string `query:"sortBy"`
	SortOrder   string `query:"sortOrder"`
	Page        string `query:"page"`
	Limit       string `query:"limit"`
}

// CatalogDefaults are the fallbacks used when page or limit are missing or invalid.
// MaxLimit caps the page size; zero disables the cap.
type CatalogDefaults struct {
	Page     int
	Limit    int
	MaxLimit int
}

// Sortable product fields, keyed by their API names.
const (
	SortCreatedAt = "createdAt"
	SortPrice     = "price"
	SortViews     = "views"
	SortRating    = "rating"
	SortDiscount  = "discount"
)

// SortKey orders results by one product field.
type SortKey struct {
	Field string
	Desc  bool
}

// CatalogQuery is the resolved search plan handed to the product repository.
// When SearchTerms is non-empty results are ordered by relevance first, then by Sort.
type CatalogQuery struct {
	SearchTerms    []string
	Category       string
	MinPrice       float64
	MaxPrice       float64
	OnlyDiscounted bool
	MinViews       float64
	MinRating      float64
	Sort           SortKey
	Page           int
	Limit          int
}

// Offset returns the number of rows skipped before the requested page.
func (q CatalogQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Unbounded reports whether no upper price limit applies.
func (q CatalogQuery) Unbounded() bool {
	return math.IsInf(q.MaxPrice, 1)
}

// AppliedFilters echoes the resolved filter values. MaxPrice is nil when unbounded.
type AppliedFilters struct {
	Search      string   `json:"search"`
	Category    string   `json:"category"`
	MinPrice    float64  `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	HasDiscount bool     `json:"hasDiscount"`
	MinViews    float64  `json:"minViews"`
	MinRating   float64  `json:"minRating"`
	SortBy      string   `json:"sortBy"`
	SortOrder   string   `json:"sortOrder"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes TotalPages as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// CatalogPage is the result of a catalog search.
type CatalogPage struct {
	Products   []Product      `json:"products"`
	Pagination Pagination     `json:"pagination"`
	Filters    AppliedFilters `json:"filters"`
}

// ProductStatsPage is a page of enriched products, used by favorites and view history.
type ProductStatsPage struct {
	Products   []ProductWithStats `json:"products"`
	Pagination Pagination         `json:"pagination"`
}

// ReviewPage is a page of reviews for one product.
type ReviewPage struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}
