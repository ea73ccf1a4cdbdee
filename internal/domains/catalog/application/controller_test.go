package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

type fakeSource struct {
	mu          sync.Mutex
	products    []domain.Product
	categories  []string
	productErr  error
	categoryErr error
	listCalls   int
	// block, when set, is waited on by the first ListProducts call.
	block chan struct{}
}

func (f *fakeSource) ListProducts(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	products := append([]domain.Product(nil), f.products...)
	err := f.productErr
	block := f.block
	f.mu.Unlock()
	if call == 1 && block != nil {
		<-block
	}
	return products, err
}

func (f *fakeSource) ListCategories(context.Context) ([]string, error) {
	return f.categories, f.categoryErr
}

func (f *fakeSource) GetProduct(_ context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, errors.New("not found")
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Phone", Category: "Electronics", Price: decimal.NewFromInt(300)},
		{ID: "2", Name: "Novel", Category: "Books", Price: decimal.NewFromInt(100)},
	}
}

func TestLoad_PopulatesProductsAndCategories(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categories: []string{"Electronics", "Books", "Books", ""}}
	ctrl := NewController(src)

	require.NoError(t, ctrl.Load(context.Background()))

	require.Equal(t, []string{"ALL", "Electronics", "Books"}, ctrl.Categories())
	require.Len(t, ctrl.Derive(), 2)
	require.Empty(t, ctrl.State().Error)
}

func TestLoad_FailureEmptiesList(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categories: []string{"Books"}}
	ctrl := NewController(src)
	require.NoError(t, ctrl.Load(context.Background()))

	src.productErr = errors.New("down")
	err := ctrl.Load(context.Background())

	require.Error(t, err)
	require.Equal(t, MessageLoadFailed, apierrors.MessageOf(err, ""))
	state := ctrl.State()
	require.Empty(t, state.Products)
	require.Equal(t, MessageLoadFailed, state.Error)
}

func TestLoad_CategoryFailureLeavesOnlyAll(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categoryErr: errors.New("down")}
	ctrl := NewController(src)

	require.NoError(t, ctrl.Load(context.Background()))
	require.Equal(t, []string{"ALL"}, ctrl.Categories())
}

func TestSetCategory_FilterScenario(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categories: []string{"Electronics", "Books"}}
	ctrl := NewController(src)
	require.NoError(t, ctrl.Load(context.Background()))

	require.True(t, ctrl.SetCategory("Electronics"))
	got := ctrl.Derive()

	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
}

func TestSetCategory_UnknownValueIsNoOp(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categories: []string{"Books"}}
	ctrl := NewController(src)
	require.NoError(t, ctrl.Load(context.Background()))
	require.True(t, ctrl.SetCategory("Books"))

	require.False(t, ctrl.SetCategory("Garden"))
	require.Equal(t, "Books", ctrl.State().Filter.Category)
}

func TestLoad_ResetsCategoryMissingAfterReload(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), categories: []string{"Books"}}
	ctrl := NewController(src)
	require.NoError(t, ctrl.Load(context.Background()))
	require.True(t, ctrl.SetCategory("Books"))

	src.categories = []string{"Electronics"}
	require.NoError(t, ctrl.Load(context.Background()))

	require.Equal(t, domain.CategoryAll, ctrl.State().Filter.Category)
}

func TestSetSort_PriceLowToHighScenario(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	ctrl := NewController(src)
	require.NoError(t, ctrl.Load(context.Background()))

	require.NoError(t, ctrl.SetSort("priceLowToHigh"))
	got := ctrl.Derive()

	require.Equal(t, "100", got[0].Price.String())
	require.Equal(t, "300", got[1].Price.String())
	require.Equal(t, got, ctrl.Derive())
}

func TestSetSort_RejectsUnknownMode(t *testing.T) {
	ctrl := NewController(&fakeSource{})
	require.NoError(t, ctrl.SetSort("priceDesc"))

	err := ctrl.SetSort("random")

	require.ErrorIs(t, err, domain.ErrUnknownSortMode)
	require.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	require.Equal(t, domain.SortPriceDesc, ctrl.State().Filter.Sort)
}

func TestSetSearch(t *testing.T) {
	ctrl := NewController(&fakeSource{products: sampleProducts()})
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SetSearch("NOV")

	got := ctrl.Derive()
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID)
}

func TestLoad_StaleResultIsDiscarded(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{products: []domain.Product{{ID: "old"}}, block: block}
	ctrl := NewController(src)

	done := make(chan error, 1)
	go func() { done <- ctrl.Load(context.Background()) }()
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.listCalls == 1
	}, time.Second, time.Millisecond)

	src.mu.Lock()
	src.products = []domain.Product{{ID: "new"}}
	src.mu.Unlock()
	require.NoError(t, ctrl.Load(context.Background()))

	close(block)
	require.NoError(t, <-done)

	_, ok := ctrl.Product("new")
	require.True(t, ok)
	_, ok = ctrl.Product("old")
	require.False(t, ok)
}

func TestFetch_WrapsFailure(t *testing.T) {
	ctrl := NewController(&fakeSource{})

	_, err := ctrl.Fetch(context.Background(), "missing")

	require.Equal(t, "Failed to fetch product details", apierrors.MessageOf(err, ""))
}
