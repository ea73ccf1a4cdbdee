package ports

import (
	"context"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// Products is the Commerce API surface the admin flows drive.
type Products interface {
	catalogports.ProductWriter
	GetProduct(ctx context.Context, id string) (catalogdomain.Product, error)
}

// Refresher reloads the catalog after a mutation.
type Refresher interface {
	Load(ctx context.Context) error
}
