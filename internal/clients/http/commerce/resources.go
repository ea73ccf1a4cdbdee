package commerce

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	addressports "github.com/Apurer/go-gin-storefront/internal/domains/addresses/ports"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
)

var (
	_ catalogports.ProductSource = (*Client)(nil)
	_ catalogports.ProductWriter = (*Client)(nil)
	_ addressports.Gateway       = (*Client)(nil)
	_ orderports.OrderGateway    = (*Client)(nil)
	_ orderports.ProductLookup   = (*Client)(nil)
	_ sessionports.Authenticator = (*Client)(nil)
)

func productPath(id string) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("encode product id: %w", err)
	}
	return "/products/" + param, nil
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalogdomain.Product, error) {
	var body []productBody
	if _, err := c.do(ctx, http.MethodGet, "/products", nil, &body); err != nil {
		return nil, err
	}
	out := make([]catalogdomain.Product, 0, len(body))
	for _, p := range body {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// ListCategories returns the raw category list; callers normalize it.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var body []string
	if _, err := c.do(ctx, http.MethodGet, "/products/categories", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (catalogdomain.Product, error) {
	path, err := productPath(id)
	if err != nil {
		return catalogdomain.Product{}, err
	}
	var body productBody
	if _, err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return catalogdomain.Product{}, err
	}
	if body.ID == "" {
		body.ID = id
	}
	return body.toDomain(), nil
}

func (c *Client) CreateProduct(ctx context.Context, input catalogdomain.ProductInput) (catalogdomain.Product, error) {
	var body productBody
	if _, err := c.do(ctx, http.MethodPost, "/products", newProductPayload(input), &body); err != nil {
		return catalogdomain.Product{}, err
	}
	return mergeProduct(body, input, ""), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, input catalogdomain.ProductInput) (catalogdomain.Product, error) {
	path, err := productPath(id)
	if err != nil {
		return catalogdomain.Product{}, err
	}
	var body productBody
	if _, err := c.do(ctx, http.MethodPut, path, newProductPayload(input), &body); err != nil {
		return catalogdomain.Product{}, err
	}
	return mergeProduct(body, input, id), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path, err := productPath(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// mergeProduct fills fields the API left out of a mutation response from the input.
func mergeProduct(body productBody, input catalogdomain.ProductInput, id string) catalogdomain.Product {
	if body.Name == "" {
		p := catalogdomain.Product{
			ID:             body.ID,
			Name:           input.Name,
			Category:       input.Category,
			Price:          input.Price,
			Description:    input.Description,
			Manufacturer:   input.Manufacturer,
			AvailableItems: input.AvailableItems,
			ImageURL:       input.ImageURL,
		}
		if p.ID == "" {
			p.ID = id
		}
		return p
	}
	p := body.toDomain()
	if p.ID == "" {
		p.ID = id
	}
	return p
}

func (c *Client) ListAddresses(ctx context.Context) ([]addressdomain.Address, error) {
	var body []addressBody
	if _, err := c.do(ctx, http.MethodGet, "/addresses", nil, &body); err != nil {
		return nil, err
	}
	out := make([]addressdomain.Address, 0, len(body))
	for _, a := range body {
		out = append(out, a.toDomain())
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, input addressdomain.Input) (addressdomain.Address, error) {
	payload := newAddressBody(input)
	var body addressBody
	if _, err := c.do(ctx, http.MethodPost, "/addresses", payload, &body); err != nil {
		return addressdomain.Address{}, err
	}
	if body.Name == "" {
		id := body.ID
		body = payload
		body.ID = id
	}
	return body.toDomain(), nil
}

func (c *Client) CreateOrder(ctx context.Context, req orderdomain.OrderRequest) (orderdomain.Order, error) {
	payload := orderBody{ProductID: req.ProductID, AddressID: req.AddressID, Quantity: req.Quantity}
	var body orderBody
	if _, err := c.do(ctx, http.MethodPost, "/orders", payload, &body); err != nil {
		return orderdomain.Order{}, err
	}
	return body.toDomain(req), nil
}

// SignIn exchanges credentials for a token. The token is read from the body,
// falling back to the x-auth-token response header.
func (c *Client) SignIn(ctx context.Context, credentials sessiondomain.Credentials) (sessiondomain.Grant, error) {
	payload := signInBody{Username: strings.TrimSpace(credentials.Email), Password: credentials.Password}
	var body signInResponse
	header, err := c.do(ctx, http.MethodPost, "/auth/signin", payload, &body)
	if err != nil {
		return sessiondomain.Grant{}, err
	}
	token := strings.TrimSpace(body.Token)
	if token == "" && header != nil {
		token = strings.TrimSpace(header.Get(TokenHeader))
	}
	return sessiondomain.Grant{Token: token, Roles: body.Roles}, nil
}

func (c *Client) SignUp(ctx context.Context, registration sessiondomain.Registration) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/signup", newSignUpBody(registration), nil)
	return err
}
