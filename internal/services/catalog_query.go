package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"storefront/internal/models"
	"storefront/pkg/textfold"
)

// allCategories disables the category filter.
const allCategories = "all"

// BuildCatalogQuery resolves the raw query-string filters into a search plan and the filter echo.
// It never fails: unusable values fall back to their defaults.
func BuildCatalogQuery(f models.CatalogFilters, defaults models.CatalogDefaults) (models.CatalogQuery, models.AppliedFilters) {
	search := strings.TrimSpace(f.Search)
	category := strings.TrimSpace(f.Category)

	q := models.CatalogQuery{
		SearchTerms:    textfold.Terms(search),
		MinPrice:       parseMinPrice(f.MinPrice),
		MaxPrice:       parseMaxPrice(f.MaxPrice),
		OnlyDiscounted: strings.TrimSpace(f.HasDiscount) == "true",
		MinViews:       parseThreshold(f.MinViews),
		MinRating:      parseThreshold(f.MinRating),
		Sort:           parseSort(f.SortBy, f.SortOrder),
		Page:           parsePositive(f.Page, defaults.Page),
		Limit:          parsePositive(f.Limit, defaults.Limit),
	}
	if category != "" && category != allCategories {
		q.Category = category
	}
	if defaults.MaxLimit > 0 && q.Limit > defaults.MaxLimit {
		q.Limit = defaults.MaxLimit
	}

	applied := models.AppliedFilters{
		Search:      search,
		Category:    category,
		MinPrice:    q.MinPrice,
		HasDiscount: q.OnlyDiscounted,
		MinViews:    q.MinViews,
		MinRating:   q.MinRating,
		SortBy:      q.Sort.Field,
		SortOrder:   "desc",
	}
	if !q.Unbounded() {
		maxPrice := q.MaxPrice
		applied.MaxPrice = &maxPrice
	}
	if !q.Sort.Desc {
		applied.SortOrder = "asc"
	}
	return q, applied
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseMinPrice treats missing, invalid and infinite values as 0.
func parseMinPrice(s string) float64 {
	v, ok := parseNumber(s)
	if !ok || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseMaxPrice treats missing, invalid and zero values as unbounded.
func parseMaxPrice(s string) float64 {
	v, ok := parseNumber(s)
	if !ok || v == 0 || math.IsInf(v, 1) {
		return math.Inf(1)
	}
	return v
}

// parseThreshold returns the value when it is a finite positive number, else 0 (no filter).
func parseThreshold(s string) float64 {
	v, ok := parseNumber(s)
	if !ok || v <= 0 || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseSort(sortBy, sortOrder string) models.SortKey {
	field := strings.TrimSpace(sortBy)
	switch field {
	case models.SortCreatedAt, models.SortPrice, models.SortViews, models.SortRating, models.SortDiscount:
	default:
		field = models.SortCreatedAt
	}
	return models.SortKey{Field: field, Desc: strings.TrimSpace(sortOrder) != "asc"}
}

// parsePositive reads the leading integer of s ("3abc" is 3, "2.9" is 2) and falls back to def
// when there is none or it is not positive.
func parsePositive(s string, def int) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return def
	}
	return n
}
