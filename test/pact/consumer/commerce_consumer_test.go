//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/commerce"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	pacttest "github.com/Apurer/go-gin-storefront/test/pact"
)

func likeEach(payload map[string]any) matchers.Map {
	out := matchers.Map{}
	for k, v := range payload {
		out[k] = matchers.Like(v)
	}
	return out
}

func TestStorefrontCommerceContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	productMatcher := likeEach(pacttest.ExampleProductPayload())
	addressMatcher := likeEach(pacttest.ExampleAddressPayload())

	pact.AddInteraction().
		Given(pacttest.StateAdminSession).
		UponReceiving("a sign-in with admin credentials").
		WithRequest("POST", "/auth/signin", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"username": matchers.S(pacttest.AdminEmail),
				"password": matchers.S(pacttest.AdminPassword),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"token": matchers.Like(pacttest.AdminToken),
				"roles": matchers.EachLike("ADMIN", 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to list products").
		WithRequest("GET", "/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(productMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", "/products/"+pacttest.ExistingProductID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", "/products/"+pacttest.MissingProductID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.Like("Product not found")})
		})

	pact.AddInteraction().
		Given(pacttest.StateShopperSession).
		UponReceiving("a product deletion by a shopper").
		WithRequest("DELETE", "/products/"+pacttest.ExistingProductID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
		}).
		WillRespondWith(http.StatusForbidden, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.Like("Access denied")})
		})

	pact.AddInteraction().
		Given(pacttest.StateAddressesBase).
		UponReceiving("a request to list saved addresses").
		WithRequest("GET", "/addresses", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(addressMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateAddressesBase).
		UponReceiving("an order for an existing product").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(commerce.TokenHeader, matchers.S(pacttest.ShopperToken))
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productId": matchers.S(pacttest.ExistingProductID),
				"addressId": matchers.S(pacttest.ExistingAddressID),
				"quantity":  matchers.Like(2),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":        matchers.Like("o-301"),
				"productId": matchers.S(pacttest.ExistingProductID),
				"addressId": matchers.S(pacttest.ExistingAddressID),
				"quantity":  matchers.Like(2),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := newCommerceClient(config)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		grant, err := client.SignIn(ctx, sessiondomain.Credentials{Email: pacttest.AdminEmail, Password: pacttest.AdminPassword})
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		if !sessiondomain.HasRole(grant.Roles, sessiondomain.RoleAdmin) || grant.Token == "" {
			return fmt.Errorf("expected admin grant, got %+v", grant)
		}

		shopper := commerce.WithToken(ctx, pacttest.ShopperToken)
		products, err := client.ListProducts(shopper)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("expected at least one product")
		}

		product, err := client.GetProduct(shopper, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.ID != pacttest.ExistingProductID || product.Price.IsZero() {
			return fmt.Errorf("unexpected product %+v", product)
		}

		if _, err := client.GetProduct(shopper, pacttest.MissingProductID); commerce.StatusOf(err) != http.StatusNotFound {
			return fmt.Errorf("expected 404 for product %s, got %v", pacttest.MissingProductID, err)
		}

		if err := client.DeleteProduct(shopper, pacttest.ExistingProductID); commerce.StatusOf(err) != http.StatusForbidden {
			return fmt.Errorf("expected 403 on shopper delete, got %v", err)
		} else if commerce.ServerMessage(err) == "" {
			return fmt.Errorf("expected the server message to be surfaced")
		}

		addresses, err := client.ListAddresses(shopper)
		if err != nil {
			return fmt.Errorf("list addresses: %w", err)
		}
		if len(addresses) == 0 || addresses[0].ID == "" {
			return fmt.Errorf("expected a saved address, got %+v", addresses)
		}

		order, err := client.CreateOrder(shopper, orderdomain.OrderRequest{
			ProductID: pacttest.ExistingProductID,
			AddressID: pacttest.ExistingAddressID,
			Quantity:  2,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if order.ID == "" {
			return fmt.Errorf("expected order id to be set")
		}
		return nil
	})
	require.NoError(t, err)
}

func newCommerceClient(config pactconsumer.MockServerConfig) (*commerce.Client, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return commerce.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port),
		commerce.WithHTTPClient(&http.Client{Transport: transport, Timeout: 10 * time.Second}),
	)
}
