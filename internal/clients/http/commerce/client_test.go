package commerce

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	client, err := NewClient(srv.URL+"/", opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestListProducts_DecodesCatalogAndSendsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "tok-1", r.Header.Get(TokenHeader))
		_, _ = io.WriteString(w, `[{"id":"p1","name":"Kindle","category":"Electronics","price":999.5,"availableItems":3,"imageUrl":"k.png","createdAt":"2024-02-01T10:00:00Z"}]`)
	}, WithTokenSource(TokenSourceFunc(func(context.Context) (string, error) { return "tok-1", nil })))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "p1", products[0].ID)
	require.True(t, decimal.RequireFromString("999.5").Equal(products[0].Price))
	require.Equal(t, 3, products[0].AvailableItems)
	require.Equal(t, 2024, products[0].CreatedAt.Year())
}

func TestWithToken_OverridesTokenSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "from-context", r.Header.Get(TokenHeader))
		_, _ = io.WriteString(w, `["Books"]`)
	}, WithTokenSource(TokenSourceFunc(func(context.Context) (string, error) { return "from-source", nil })))

	categories, err := client.ListCategories(WithToken(context.Background(), "from-context"))
	require.NoError(t, err)
	require.Equal(t, []string{"Books"}, categories)
}

func TestGetProduct_EscapesPathParameter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"name":"Odd"}`)
	})

	product, err := client.GetProduct(context.Background(), "a/b")
	require.NoError(t, err)
	require.Equal(t, "a/b", product.ID)
	require.Equal(t, "Odd", product.Name)
}

func TestCreateProduct_SendsNumericPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, 12.5, body["price"])
		require.Equal(t, float64(0), body["availableItems"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"new-1"}`)
	})

	product, err := client.CreateProduct(context.Background(), catalogdomain.ProductInput{
		Name:     "Lamp",
		Category: "Home",
		Price:    decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	require.Equal(t, "new-1", product.ID)
	require.Equal(t, "Lamp", product.Name)
}

func TestDeleteProduct_ForbiddenIsAuthorizationKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"Access denied"}`)
	})

	err := client.DeleteProduct(context.Background(), "p1")
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, StatusOf(err))
	require.Equal(t, "Access denied", ServerMessage(err))
	require.Equal(t, apierrors.KindAuthorization, apierrors.KindOf(err))
}

func TestUnauthorized_IsSessionExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListAddresses(context.Background())
	require.Equal(t, apierrors.KindSessionExpired, apierrors.KindOf(err))
	status, message, ok := apierrors.ResponseOf(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Empty(t, message)
}

func TestTransportFailure_IsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	srv.Close()

	_, err = client.ListProducts(context.Background())
	require.Error(t, err)
	require.Equal(t, apierrors.KindNetwork, apierrors.KindOf(err))
	_, _, ok := apierrors.ResponseOf(err)
	require.False(t, ok)
}

func TestCreateAddress_MapsZipCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "560001", body["zipcode"])
		require.Equal(t, "", body["landmark"])
		_, _ = io.WriteString(w, `{"id":"a1"}`)
	})

	addr, err := client.CreateAddress(context.Background(), addressdomain.Input{
		Name: "Home", ContactNumber: "99", Street: "MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001",
	})
	require.NoError(t, err)
	require.Equal(t, "a1", addr.ID)
	require.Equal(t, "560001", addr.Zipcode)
	require.Equal(t, "Home", addr.Name)
}

func TestCreateOrder_PostsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		var body orderBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, orderBody{ProductID: "p1", AddressID: "a1", Quantity: 2}, body)
		w.WriteHeader(http.StatusCreated)
	})

	order, err := client.CreateOrder(context.Background(), orderdomain.OrderRequest{ProductID: "p1", AddressID: "a1", Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, 2, order.Quantity)
	require.Equal(t, "a1", order.AddressID)
}

func TestSignIn_ReadsTokenFromHeaderFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body signInBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, signInBody{Username: "admin@demo.com", Password: "secret"}, body)
		require.Empty(t, r.Header.Get(TokenHeader))
		w.Header().Set(TokenHeader, "header-token")
		_, _ = io.WriteString(w, `{"roles":["USER","ADMIN"]}`)
	})

	grant, err := client.SignIn(context.Background(), sessiondomain.Credentials{Email: " admin@demo.com ", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "header-token", grant.Token)
	require.Equal(t, []string{"USER", "ADMIN"}, grant.Roles)
}

func TestSignUp_BadRequestCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Error: Email is already in use!"}`)
	})

	err := client.SignUp(context.Background(), sessiondomain.Registration{Email: "a@b.c"})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, StatusOf(err))
	require.Equal(t, "Error: Email is already in use!", ServerMessage(err))
}
