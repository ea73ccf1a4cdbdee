package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// ProductSource is the read side of the Commerce API product endpoints.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// ProductWriter is the admin-only write side of the product endpoints.
type ProductWriter interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
