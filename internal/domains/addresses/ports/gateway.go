package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
)

// Gateway is the Commerce API surface the address manager depends on.
type Gateway interface {
	ListAddresses(ctx context.Context) ([]domain.Address, error)
	CreateAddress(ctx context.Context, input domain.Input) (domain.Address, error)
}
