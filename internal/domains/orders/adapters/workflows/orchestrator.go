package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/orders"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var (
	_ ports.Submitter = (*TemporalSubmitter)(nil)
	_ ports.Submitter = (*InlineSubmitter)(nil)
)

// TemporalSubmitter places orders through the submission workflow and waits
// for its result.
type TemporalSubmitter struct {
	client    client.Client
	taskQueue string
}

func NewTemporalSubmitter(c client.Client) *TemporalSubmitter {
	return &TemporalSubmitter{client: c, taskQueue: orderworkflows.SubmissionTaskQueue}
}

// Submit starts one workflow per confirmation. Workflow ids are random so a
// manual retry after a failure is a new submission.
func (s *TemporalSubmitter) Submit(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	if s == nil || s.client == nil {
		return domain.Order{}, errors.New("temporal order submitter not configured")
	}
	session, _ := sessiondomain.FromContext(ctx)
	options := client.StartWorkflowOptions{
		ID:        "order-submission-" + uuid.NewString(),
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, options, orderworkflows.SubmissionWorkflow, orderworkflows.SubmissionWorkflowInput{
		Request: req,
		Token:   session.Token,
		TraceID: traceID(ctx),
	})
	if err != nil {
		var unavailable *serviceerror.Unavailable
		if errors.As(err, &unavailable) {
			return domain.Order{}, apierrors.WrapKind(apierrors.KindNetwork, err, "")
		}
		return domain.Order{}, fmt.Errorf("start order submission: %w", err)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return domain.Order{}, translate(err)
	}
	return order, nil
}

// InlineSubmitter calls the Commerce API directly, for development and tests.
type InlineSubmitter struct {
	gateway ports.OrderGateway
}

func NewInlineSubmitter(gateway ports.OrderGateway) *InlineSubmitter {
	return &InlineSubmitter{gateway: gateway}
}

func (s *InlineSubmitter) Submit(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	if s == nil || s.gateway == nil {
		return domain.Order{}, errors.New("inline order submitter not configured")
	}
	return s.gateway.CreateOrder(ctx, req)
}

// SubmissionError restores the classification of a failure that crossed the
// workflow boundary.
type SubmissionError struct {
	kind    apierrors.Kind
	status  int
	message string
	err     error
}

func (e *SubmissionError) Error() string         { return e.err.Error() }
func (e *SubmissionError) Unwrap() error         { return e.err }
func (e *SubmissionError) Kind() apierrors.Kind  { return e.kind }
func (e *SubmissionError) StatusCode() int       { return e.status }
func (e *SubmissionError) ServerMessage() string { return e.message }

var knownKinds = []apierrors.Kind{
	apierrors.KindValidation,
	apierrors.KindAuthorization,
	apierrors.KindNotFound,
	apierrors.KindNetwork,
	apierrors.KindSessionExpired,
}

func translate(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	out := &SubmissionError{kind: apierrors.KindUnknown, err: err}
	for _, k := range knownKinds {
		if k.String() == appErr.Type() {
			out.kind = k
			break
		}
	}
	if appErr.HasDetails() {
		_ = appErr.Details(&out.status, &out.message)
	}
	if out.status == 0 {
		// No response reached the worker; ResponseOf must report ok=false.
		return apierrors.WrapKind(out.kind, err, "")
	}
	return out
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
