package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// CreateOrderActivityName issues the Commerce API order call.
const CreateOrderActivityName = "orders.activities.CreateOrder"

// CreateOrderInput is the activity payload. Token is the shopper's Commerce API token.
type CreateOrderInput struct {
	Request domain.OrderRequest
	Token   string
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	gateway orderports.OrderGateway
}

func NewActivities(gateway orderports.OrderGateway) *Activities {
	return &Activities{gateway: gateway}
}

// CreateOrder places the order. Failures are returned as non-retryable
// application errors typed by their storefront kind, with the HTTP status and
// server message attached as details.
func (a *Activities) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	req := input.Request
	if a == nil || a.gateway == nil {
		logger.Error("create order activity not initialized", "productId", req.ProductID)
		return nil, errors.New("create order activity not initialized")
	}
	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), apierrors.KindValidation.String(), err)
	}
	logger.Info("CreateOrder activity started", "productId", req.ProductID, "quantity", req.Quantity)
	ctx = sessiondomain.NewContext(ctx, sessiondomain.Session{LoggedIn: true, Token: input.Token})
	order, err := a.gateway.CreateOrder(ctx, req)
	if err != nil {
		logger.Error("CreateOrder activity failed", "productId", req.ProductID, "error", err)
		status, message, _ := apierrors.ResponseOf(err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), apierrors.KindOf(err).String(), err, status, message)
	}
	logger.Info("CreateOrder activity completed", "orderId", order.ID)
	return &order, nil
}
