package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

type gatewayFunc func(ctx context.Context, req domain.OrderRequest) (domain.Order, error)

func (f gatewayFunc) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	return f(ctx, req)
}

func TestInlineSubmitter_DelegatesToGateway(t *testing.T) {
	var got domain.OrderRequest
	sub := NewInlineSubmitter(gatewayFunc(func(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
		got = req
		return domain.Order{ID: "o-9"}, nil
	}))
	req := domain.OrderRequest{ProductID: "p1", AddressID: "a1", Quantity: 3}

	order, err := sub.Submit(context.Background(), req)

	require.NoError(t, err)
	require.Equal(t, "o-9", order.ID)
	require.Equal(t, req, got)
}

func TestInlineSubmitter_NotConfigured(t *testing.T) {
	var sub *InlineSubmitter
	_, err := sub.Submit(context.Background(), domain.OrderRequest{})
	require.Error(t, err)
}

func TestTranslate_RestoresResponseDetails(t *testing.T) {
	appErr := temporal.NewNonRetryableApplicationError("denied", apierrors.KindAuthorization.String(), nil, 403, "Access denied")

	err := translate(appErr)

	require.Equal(t, apierrors.KindAuthorization, apierrors.KindOf(err))
	status, message, ok := apierrors.ResponseOf(err)
	require.True(t, ok)
	require.Equal(t, 403, status)
	require.Equal(t, "Access denied", message)
}

func TestTranslate_NetworkFailureHasNoResponse(t *testing.T) {
	appErr := temporal.NewNonRetryableApplicationError("dial tcp", apierrors.KindNetwork.String(), nil, 0, "")

	err := translate(appErr)

	require.Equal(t, apierrors.KindNetwork, apierrors.KindOf(err))
	_, _, ok := apierrors.ResponseOf(err)
	require.False(t, ok)
}

func TestTranslate_LeavesOtherErrorsAlone(t *testing.T) {
	plain := errors.New("context canceled")
	require.Same(t, plain, translate(plain))
}
