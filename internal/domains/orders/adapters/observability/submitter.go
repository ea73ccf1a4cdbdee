package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability/submitter"

// Submitter decorates an order submitter with tracing, logging, and metrics.
type Submitter struct {
	inner   ports.Submitter
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics submitterMetrics
}

type Option func(*Submitter)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Submitter) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create submission counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Submitter) {
		s.metrics = newSubmitterMetrics(m)
	}
}

func New(inner ports.Submitter, opts ...Option) ports.Submitter {
	s := &Submitter{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newSubmitterMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Submitter) Submit(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderSubmitter.Submit", trace.WithAttributes(
		attribute.String("order.product_id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
	))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "submitting order",
		slog.String("product_id", req.ProductID), slog.Int("quantity", req.Quantity))
	order, err := s.inner.Submit(ctx, req)
	if err != nil {
		kind := apierrors.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordFailed(ctx, kind)
		s.logger.LogAttrs(ctx, slog.LevelError, "order submission failed",
			slog.String("product_id", req.ProductID), slog.String("kind", kind.String()), slog.String("error", err.Error()))
		return domain.Order{}, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.metrics.recordSubmitted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order submitted",
		slog.String("order_id", order.ID), slog.String("product_id", req.ProductID))
	return order, nil
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type submitterMetrics struct {
	submitted metric.Int64Counter
	failed    metric.Int64Counter
}

func newSubmitterMetrics(m metric.Meter) submitterMetrics {
	if m == nil {
		return submitterMetrics{}
	}
	submitted, _ := m.Int64Counter("orders.submitted", metric.WithDescription("Number of orders placed"))
	failed, _ := m.Int64Counter("orders.failed", metric.WithDescription("Number of failed order submissions"))
	return submitterMetrics{submitted: submitted, failed: failed}
}

func (m submitterMetrics) recordSubmitted(ctx context.Context) {
	addCounter(ctx, m.submitted, 1)
}

func (m submitterMetrics) recordFailed(ctx context.Context, kind apierrors.Kind) {
	addCounter(ctx, m.failed, 1, attribute.String("error.kind", kind.String()))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Submitter = (*Submitter)(nil)
