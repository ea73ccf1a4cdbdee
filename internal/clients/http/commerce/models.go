package commerce

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

type productBody struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	Manufacturer   string          `json:"manufacturer"`
	AvailableItems int             `json:"availableItems"`
	ImageURL       string          `json:"imageUrl"`
	CreatedAt      string          `json:"createdAt,omitempty"`
}

func (b productBody) toDomain() catalogdomain.Product {
	return catalogdomain.Product{
		ID:             b.ID,
		Name:           b.Name,
		Category:       b.Category,
		Price:          b.Price,
		Description:    b.Description,
		Manufacturer:   b.Manufacturer,
		AvailableItems: b.AvailableItems,
		ImageURL:       b.ImageURL,
		CreatedAt:      parseTimestamp(b.CreatedAt),
	}
}

// productPayload is the create/update body. Price goes out as a bare JSON number.
type productPayload struct {
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	Price          json.Number `json:"price"`
	Description    string      `json:"description"`
	Manufacturer   string      `json:"manufacturer"`
	AvailableItems int         `json:"availableItems"`
	ImageURL       string      `json:"imageUrl"`
}

func newProductPayload(in catalogdomain.ProductInput) productPayload {
	return productPayload{
		Name:           in.Name,
		Category:       in.Category,
		Price:          json.Number(in.Price.String()),
		Description:    in.Description,
		Manufacturer:   in.Manufacturer,
		AvailableItems: in.AvailableItems,
		ImageURL:       in.ImageURL,
	}
}

type addressBody struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Landmark      string `json:"landmark"`
	Zipcode       string `json:"zipcode"`
}

func (b addressBody) toDomain() addressdomain.Address {
	return addressdomain.Address{
		ID:            b.ID,
		Name:          b.Name,
		ContactNumber: b.ContactNumber,
		Street:        b.Street,
		City:          b.City,
		State:         b.State,
		Landmark:      b.Landmark,
		Zipcode:       b.Zipcode,
	}
}

func newAddressBody(in addressdomain.Input) addressBody {
	return addressBody{
		Name:          in.Name,
		ContactNumber: in.ContactNumber,
		Street:        in.Street,
		City:          in.City,
		State:         in.State,
		Landmark:      in.Landmark,
		Zipcode:       in.ZipCode,
	}
}

type orderBody struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"productId"`
	AddressID string `json:"addressId"`
	Quantity  int    `json:"quantity"`
}

func (b orderBody) toDomain(req orderdomain.OrderRequest) orderdomain.Order {
	order := orderdomain.Order{
		ID:        b.ID,
		ProductID: b.ProductID,
		AddressID: b.AddressID,
		Quantity:  b.Quantity,
	}
	// Some deployments acknowledge with an empty body.
	if order.ProductID == "" {
		order.ProductID = req.ProductID
	}
	if order.AddressID == "" {
		order.AddressID = req.AddressID
	}
	if order.Quantity == 0 {
		order.Quantity = req.Quantity
	}
	return order
}

type signInBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

type signUpBody struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
}

func newSignUpBody(r sessiondomain.Registration) signUpBody {
	return signUpBody{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Password:      r.Password,
		ContactNumber: r.ContactNumber,
	}
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimestamp returns the zero time for missing or unparseable values.
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
