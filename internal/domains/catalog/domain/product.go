package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAll is the sentinel filter value that disables category filtering.
const CategoryAll = "ALL"

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeQuantity = errors.New("available items must not be negative")
)

// Product is a catalog entry as served by the Commerce API.
type Product struct {
	ID             string
	Name           string
	Category       string
	Price          decimal.Decimal
	Description    string
	Manufacturer   string
	AvailableItems int
	ImageURL       string
	CreatedAt      time.Time
}

// ProductInput is the coerced payload for product create and update calls.
type ProductInput struct {
	Name           string
	Category       string
	Price          decimal.Decimal
	Description    string
	Manufacturer   string
	AvailableItems int
	ImageURL       string
}

// Validate enforces the invariants the Commerce API relies on.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.AvailableItems < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Accepts reports whether quantity may be ordered against the product.
func (p Product) Accepts(quantity int) bool {
	return quantity >= 1 && quantity <= p.AvailableItems
}

// Total is the price of quantity units.
func (p Product) Total(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// NormalizeCategories removes blanks and duplicates while keeping first-seen order.
func NormalizeCategories(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" || c == CategoryAll {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
