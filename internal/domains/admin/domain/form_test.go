package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

func validForm() Form {
	return Form{
		Name:           " Lamp ",
		Category:       "Home",
		Manufacturer:   "Acme",
		AvailableItems: "0",
		Price:          "19.99",
	}
}

func TestForm_ValidateReportsMissingFields(t *testing.T) {
	f := validForm()
	f.Manufacturer = "  "
	f.AvailableItems = ""

	err := f.Validate()

	require.Error(t, err)
	assert.ElementsMatch(t, []string{"manufacturer", "availableItems"}, MissingFields(err))
}

func TestForm_InputCoercesNumbers(t *testing.T) {
	in, err := validForm().Input()

	require.NoError(t, err)
	assert.Equal(t, "Lamp", in.Name)
	assert.Equal(t, 0, in.AvailableItems)
	assert.True(t, decimal.RequireFromString("19.99").Equal(in.Price))
}

func TestForm_InputRejectsBadNumbers(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Form)
		field  string
		cause  error
	}{
		"text items":     {func(f *Form) { f.AvailableItems = "many" }, "availableItems", ErrInvalidNumber},
		"negative items": {func(f *Form) { f.AvailableItems = "-1" }, "availableItems", catalogdomain.ErrNegativeQuantity},
		"text price":     {func(f *Form) { f.Price = "cheap" }, "price", ErrInvalidNumber},
		"negative price": {func(f *Form) { f.Price = "-0.01" }, "price", catalogdomain.ErrNegativePrice},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)

			_, err := f.Input()

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tc.field, fieldErr.Field)
			assert.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestFormFor_RoundTripsProduct(t *testing.T) {
	p := catalogdomain.Product{Name: "Lamp", Category: "Home", Manufacturer: "Acme", AvailableItems: 3, Price: decimal.RequireFromString("5.5")}

	in, err := FormFor(p).Input()

	require.NoError(t, err)
	assert.Equal(t, 3, in.AvailableItems)
	assert.True(t, p.Price.Equal(in.Price))
}
