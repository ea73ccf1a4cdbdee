package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
)

const (
	// SubmissionWorkflowName is the public identifier for registering the workflow.
	SubmissionWorkflowName = "orders.workflows.Submission"
	// SubmissionTaskQueue is the queue consumed by the worker placing orders.
	SubmissionTaskQueue = "ORDER_SUBMISSION"
)

// SubmissionWorkflowInput captures the order and the credentials to place it with.
type SubmissionWorkflowInput struct {
	Request domain.OrderRequest
	Token   string
	TraceID string
}

// SubmissionWorkflow places a single order through the Commerce API.
func SubmissionWorkflow(ctx workflow.Context, input SubmissionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	productID := input.Request.ProductID
	logger.Info("SubmissionWorkflow started", withTraceID(input.TraceID, "productId", productID)...)
	order, err := sequences.RunOrderSubmissionSequence(ctx, orderactivities.CreateOrderInput{
		Request: input.Request,
		Token:   input.Token,
	})
	if err != nil {
		logger.Error("SubmissionWorkflow failed", withTraceID(input.TraceID, "productId", productID, "error", err)...)
		return nil, err
	}
	logger.Info("SubmissionWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
