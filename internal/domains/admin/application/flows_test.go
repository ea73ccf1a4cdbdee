package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

type httpFailure struct {
	status  int
	message string
}

func (e httpFailure) Error() string         { return "http failure" }
func (e httpFailure) StatusCode() int       { return e.status }
func (e httpFailure) ServerMessage() string { return e.message }

type fakeProducts struct {
	created   []catalogdomain.ProductInput
	updated   map[string]catalogdomain.ProductInput
	deleted   []string
	product   catalogdomain.Product
	err       error
	deleteErr error
	getErr    error
}

func (f *fakeProducts) CreateProduct(_ context.Context, in catalogdomain.ProductInput) (catalogdomain.Product, error) {
	if f.err != nil {
		return catalogdomain.Product{}, f.err
	}
	f.created = append(f.created, in)
	return catalogdomain.Product{ID: "new", Name: in.Name}, nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, id string, in catalogdomain.ProductInput) (catalogdomain.Product, error) {
	if f.err != nil {
		return catalogdomain.Product{}, f.err
	}
	if f.updated == nil {
		f.updated = map[string]catalogdomain.ProductInput{}
	}
	f.updated[id] = in
	return catalogdomain.Product{ID: id, Name: in.Name}, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeProducts) GetProduct(context.Context, string) (catalogdomain.Product, error) {
	return f.product, f.getErr
}

type countingRefresher struct{ loads int }

func (r *countingRefresher) Load(context.Context) error {
	r.loads++
	return nil
}

func lampForm() domain.Form {
	return domain.Form{Name: "Lamp", Category: "Home", Manufacturer: "Acme", AvailableItems: "4", Price: "12.50"}
}

func TestCreateProduct_Success(t *testing.T) {
	products := &fakeProducts{}
	flows := NewFlows(products, nil)

	transition, err := flows.CreateProduct(context.Background(), lampForm())

	require.NoError(t, err)
	assert.Equal(t, "/products", transition.Route)
	require.NotNil(t, transition.Notification)
	assert.Equal(t, "Product Lamp created successfully", transition.Notification.Message)
	require.Len(t, products.created, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(products.created[0].Price))
}

func TestCreateProduct_MissingFieldSkipsNetwork(t *testing.T) {
	products := &fakeProducts{}
	flows := NewFlows(products, nil)
	form := lampForm()
	form.Price = ""

	_, err := flows.CreateProduct(context.Background(), form)

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, domain.MessageRequiredFields, apierrors.MessageOf(err, ""))
	assert.True(t, apierrors.Is(err, apierrors.KindValidation))
	assert.Empty(t, products.created)
}

func TestCreateProduct_CoercionFailureNamesField(t *testing.T) {
	products := &fakeProducts{}
	flows := NewFlows(products, nil)
	form := lampForm()
	form.AvailableItems = "-2"

	_, err := flows.CreateProduct(context.Background(), form)

	assert.Equal(t, "Invalid availableItems", apierrors.MessageOf(err, ""))
	assert.Empty(t, products.created)
}

func TestCreateProduct_FailureMessages(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"forbidden":      {httpFailure{status: 403, message: "Access denied"}, "You are not authorized to create products. Please check your permissions."},
		"server message": {httpFailure{status: 400, message: "Name taken"}, "Name taken"},
		"no message":     {httpFailure{status: 500}, "Failed to create product"},
		"no response":    {errors.New("connection refused"), "Error creating product"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			flows := NewFlows(&fakeProducts{err: tc.err}, nil)

			_, err := flows.CreateProduct(context.Background(), lampForm())

			assert.Equal(t, tc.want, apierrors.MessageOf(err, ""))
		})
	}
}

func TestUpdateProduct_SuccessAndForbidden(t *testing.T) {
	products := &fakeProducts{}
	flows := NewFlows(products, nil)

	transition, err := flows.UpdateProduct(context.Background(), "p1", lampForm())
	require.NoError(t, err)
	assert.Equal(t, "Product Lamp modified successfully", transition.Notification.Message)
	assert.Equal(t, 4, products.updated["p1"].AvailableItems)

	flows = NewFlows(&fakeProducts{err: httpFailure{status: 403}}, nil)
	_, err = flows.UpdateProduct(context.Background(), "p1", lampForm())
	assert.Equal(t, "You are not authorized to modify this product. Please check your permissions.", apierrors.MessageOf(err, ""))
	assert.True(t, apierrors.Is(err, apierrors.KindAuthorization))

	flows = NewFlows(&fakeProducts{err: errors.New("reset")}, nil)
	_, err = flows.UpdateProduct(context.Background(), "p1", lampForm())
	assert.Equal(t, "Error modifying product", apierrors.MessageOf(err, ""))
}

func TestCreateAndUpdate_RefreshCatalogOnSuccessOnly(t *testing.T) {
	refresher := &countingRefresher{}
	flows := NewFlows(&fakeProducts{}, refresher)

	_, err := flows.CreateProduct(context.Background(), lampForm())
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.loads)

	_, err = flows.UpdateProduct(context.Background(), "p1", lampForm())
	require.NoError(t, err)
	assert.Equal(t, 2, refresher.loads)

	form := lampForm()
	form.Name = ""
	_, err = flows.CreateProduct(context.Background(), form)
	require.Error(t, err)

	flows = NewFlows(&fakeProducts{err: httpFailure{status: 500}}, refresher)
	_, err = flows.CreateProduct(context.Background(), lampForm())
	require.Error(t, err)
	_, err = flows.UpdateProduct(context.Background(), "p1", lampForm())
	require.Error(t, err)
	assert.Equal(t, 2, refresher.loads)
}

func TestLoadForEdit(t *testing.T) {
	flows := NewFlows(&fakeProducts{product: catalogdomain.Product{Name: "Lamp", AvailableItems: 2, Price: decimal.RequireFromString("3")}}, nil)
	form, err := flows.LoadForEdit(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "2", form.AvailableItems)
	assert.Equal(t, "3", form.Price)

	flows = NewFlows(&fakeProducts{getErr: errors.New("boom")}, nil)
	_, err = flows.LoadForEdit(context.Background(), "p1")
	assert.Equal(t, MessageLoadFailed, apierrors.MessageOf(err, ""))
}

func TestConfirmDelete_DeletesRefreshesNotifiesOnce(t *testing.T) {
	products := &fakeProducts{}
	refresher := &countingRefresher{}
	flows := NewFlows(products, refresher)

	flows.RequestDelete("p9", "Lamp")
	pending, ok := flows.Pending()
	require.True(t, ok)
	assert.Equal(t, "p9", pending.ID)

	n, err := flows.ConfirmDelete(context.Background())

	require.NoError(t, err)
	assert.Equal(t, navdomain.Success("Product Lamp deleted successfully"), n)
	assert.Equal(t, []string{"p9"}, products.deleted)
	assert.Equal(t, 1, refresher.loads)

	_, err = flows.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingDelete)
	assert.Len(t, products.deleted, 1)
	assert.Equal(t, 1, refresher.loads)
}

func TestConfirmDelete_FailureSkipsRefresh(t *testing.T) {
	products := &fakeProducts{deleteErr: httpFailure{status: 500}}
	refresher := &countingRefresher{}
	flows := NewFlows(products, refresher)
	flows.RequestDelete("p9", "Lamp")

	n, err := flows.ConfirmDelete(context.Background())

	require.Error(t, err)
	assert.Equal(t, navdomain.SeverityError, n.Severity)
	assert.Equal(t, MessageDeleteFailed, n.Message)
	assert.Zero(t, refresher.loads)
	_, open := flows.Pending()
	assert.False(t, open)
}

func TestCancelDelete_NoNetwork(t *testing.T) {
	products := &fakeProducts{}
	flows := NewFlows(products, &countingRefresher{})
	flows.RequestDelete("p9", "Lamp")

	flows.CancelDelete()
	_, err := flows.ConfirmDelete(context.Background())

	assert.True(t, apierrors.Is(err, apierrors.KindValidation))
	assert.Empty(t, products.deleted)
}
