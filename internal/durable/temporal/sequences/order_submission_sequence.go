package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
)

// OrderActivityTimeout bounds one Commerce API order call inside the worker.
const OrderActivityTimeout = 5 * time.Minute

// RunOrderSubmissionSequence places the order with exactly one activity attempt.
// Orders are never retried automatically; the shopper retries by confirming again.
func RunOrderSubmissionSequence(ctx workflow.Context, input orderactivities.CreateOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	req := input.Request
	logger.Info("order submission sequence started", "productId", req.ProductID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: OrderActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.CreateOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order submission sequence failed", "productId", req.ProductID, "error", err)
		return nil, err
	}
	logger.Info("order submission sequence completed", "orderId", order.ID)
	return &order, nil
}
