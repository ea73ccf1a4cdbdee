package domain

import (
	"errors"
	"slices"
	"strings"
)

// SortMode orders the derived catalog view.
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceAsc  SortMode = "priceAsc"
	SortPriceDesc SortMode = "priceDesc"
	SortNewest    SortMode = "newest"
)

var ErrUnknownSortMode = errors.New("unknown sort mode")

// ParseSortMode accepts the canonical names and the legacy storefront aliases.
func ParseSortMode(raw string) (SortMode, error) {
	switch strings.TrimSpace(raw) {
	case "", string(SortDefault):
		return SortDefault, nil
	case string(SortPriceAsc), "priceLowToHigh":
		return SortPriceAsc, nil
	case string(SortPriceDesc), "priceHighToLow":
		return SortPriceDesc, nil
	case string(SortNewest):
		return SortNewest, nil
	default:
		return "", ErrUnknownSortMode
	}
}

// Filter holds the inputs of the derive pipeline.
type Filter struct {
	Category string
	Search   string
	Sort     SortMode
}

// Derive filters by category, then by search term, then sorts.
// The input slice is never modified; ties keep their received order.
func Derive(products []Product, f Filter) []Product {
	out := make([]Product, 0, len(products))
	term := strings.ToLower(strings.TrimSpace(f.Search))
	for _, p := range products {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		out = append(out, p)
	}
	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	return out
}

func matches(p Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
