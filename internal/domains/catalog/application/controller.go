package application

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// MessageLoadFailed is shown when the product list could not be fetched.
const MessageLoadFailed = "Failed to fetch products"

// State is a snapshot of the controller for rendering.
type State struct {
	Products   []domain.Product
	Categories []string
	Filter     domain.Filter
	Loaded     bool
	Error      string
}

// Controller owns the loaded catalog and the shopper's filter inputs.
type Controller struct {
	source ports.ProductSource
	logger *slog.Logger

	mu         sync.RWMutex
	products   []domain.Product
	categories []string
	filter     domain.Filter
	loaded     bool
	errMsg     string
	generation uint64
}

// Option configures the controller.
type Option func(*Controller)

// WithLogger sets the logger used for load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(source ports.ProductSource, opts ...Option) *Controller {
	c := &Controller{
		source:     source,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		categories: []string{domain.CategoryAll},
		filter:     domain.Filter{Category: domain.CategoryAll, Sort: domain.SortDefault},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Load fetches products then categories. Only the most recently started load
// is applied; earlier ones finishing late are dropped.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	products, err := c.source.ListProducts(ctx)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "catalog load failed", slog.String("error", err.Error()))
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return nil
		}
		c.products = nil
		c.loaded = true
		c.errMsg = MessageLoadFailed
		return apierrors.Wrap(err, MessageLoadFailed)
	}

	raw, err := c.source.ListCategories(ctx)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "category load failed", slog.String("error", err.Error()))
		raw = nil
	}
	categories := append([]string{domain.CategoryAll}, domain.NormalizeCategories(raw)...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.products = slices.Clone(products)
	c.categories = categories
	c.loaded = true
	c.errMsg = ""
	if !slices.Contains(c.categories, c.filter.Category) {
		c.filter.Category = domain.CategoryAll
	}
	return nil
}

// SetCategory applies value when it is ALL or a member of the loaded set and
// reports whether it did.
func (c *Controller) SetCategory(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.categories, value) {
		return false
	}
	c.filter.Category = value
	return true
}

func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	c.filter.Search = term
	c.mu.Unlock()
}

// SetSort accepts a mode name; unknown names leave the current mode unchanged.
func (c *Controller) SetSort(mode string) error {
	parsed, err := domain.ParseSortMode(mode)
	if err != nil {
		return apierrors.WrapKind(apierrors.KindValidation, err, "Unknown sort option")
	}
	c.mu.Lock()
	c.filter.Sort = parsed
	c.mu.Unlock()
	return nil
}

// Derive runs the filter pipeline over the loaded list.
func (c *Controller) Derive() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.Derive(c.products, c.filter)
}

func (c *Controller) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.categories)
}

// Product returns a loaded product by id.
func (c *Controller) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := slices.IndexFunc(c.products, func(p domain.Product) bool { return p.ID == id })
	if idx < 0 {
		return domain.Product{}, false
	}
	return c.products[idx], true
}

// Fetch reads a single product straight from the Commerce API for the details view.
func (c *Controller) Fetch(ctx context.Context, id string) (domain.Product, error) {
	product, err := c.source.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, apierrors.Wrap(err, "Failed to fetch product details")
	}
	return product, nil
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Products:   domain.Derive(c.products, c.filter),
		Categories: slices.Clone(c.categories),
		Filter:     c.filter,
		Loaded:     c.loaded,
		Error:      c.errMsg,
	}
}
