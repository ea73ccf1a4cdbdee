package ports

import (
	"context"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// ProductLookup fetches the product the workflow was mounted for.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (catalogdomain.Product, error)
}

// AddressBook is the slice of the address manager the workflow drives.
type AddressBook interface {
	List(ctx context.Context) ([]addressdomain.Address, error)
	Create(ctx context.Context, input addressdomain.Input) (addressdomain.Address, error)
}

// OrderGateway is the Commerce API order endpoint.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// Submitter places an order, either inline or through a durable workflow.
type Submitter interface {
	Submit(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}
