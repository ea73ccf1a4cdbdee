package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

type stubSubmitter struct {
	err error
}

func (s stubSubmitter) Submit(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return domain.Order{ID: "o-1", ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					out[m.Name] += dp.Value
				}
			}
		}
	}
	return out
}

func TestSubmitter_RecordsSuccess(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	var logs bytes.Buffer
	sub := New(stubSubmitter{}, WithMeter(meter), WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	order, err := sub.Submit(context.Background(), domain.OrderRequest{ProductID: "p1", AddressID: "a1", Quantity: 1})

	require.NoError(t, err)
	require.Equal(t, "o-1", order.ID)
	require.Equal(t, int64(1), collect(t, reader)["orders.submitted"])
	require.Contains(t, logs.String(), "order submitted")
}

func TestSubmitter_PassesErrorThrough(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	boom := errors.New("boom")
	sub := New(stubSubmitter{err: boom}, WithMeter(meter))

	_, err := sub.Submit(context.Background(), domain.OrderRequest{ProductID: "p1", AddressID: "a1", Quantity: 1})

	require.ErrorIs(t, err, boom)
	counts := collect(t, reader)
	require.Equal(t, int64(1), counts["orders.failed"])
	require.Zero(t, counts["orders.submitted"])
}
