package storefrontserver

import (
	"time"

	"github.com/shopspring/decimal"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	admindomain "github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ContactNumber   string `json:"contactNumber"`
}

func (r SignupRequest) toDomain() sessiondomain.Registration {
	return sessiondomain.Registration{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		ContactNumber:   r.ContactNumber,
	}
}

type Session struct {
	LoggedIn bool   `json:"loggedIn"`
	IsAdmin  bool   `json:"isAdmin"`
	Username string `json:"username,omitempty"`
}

func fromSession(s sessiondomain.Session) Session {
	return Session{LoggedIn: s.LoggedIn, IsAdmin: s.IsAdmin, Username: s.Username}
}

// Navigation tells the browser where to go next.
type Navigation struct {
	Route        string                  `json:"route"`
	Notification *navdomain.Notification `json:"notification,omitempty"`
	Session      *Session                `json:"session,omitempty"`
}

func fromTransition(t navdomain.Transition) Navigation {
	return Navigation{Route: t.Route, Notification: t.Notification}
}

type GuardDecision struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	Manufacturer   string          `json:"manufacturer"`
	AvailableItems int             `json:"availableItems"`
	ImageURL       string          `json:"imageUrl"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
}

func fromProduct(p catalogdomain.Product) Product {
	out := Product{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Price:          p.Price,
		Description:    p.Description,
		Manufacturer:   p.Manufacturer,
		AvailableItems: p.AvailableItems,
		ImageURL:       p.ImageURL,
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

func fromProducts(list []catalogdomain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, fromProduct(p))
	}
	return out
}

// CatalogView is the product listing as rendered for the shopper.
type CatalogView struct {
	Products      []Product               `json:"products"`
	Categories    []string                `json:"categories"`
	Category      string                  `json:"category"`
	Search        string                  `json:"search"`
	Sort          string                  `json:"sort"`
	Loaded        bool                    `json:"loaded"`
	Error         string                  `json:"error,omitempty"`
	Notification  *navdomain.Notification `json:"notification,omitempty"`
	PendingDelete *PendingDelete          `json:"pendingDelete,omitempty"`
}

type PendingDelete struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func fromCatalogState(s catalogapp.State) CatalogView {
	return CatalogView{
		Products:   fromProducts(s.Products),
		Categories: s.Categories,
		Category:   s.Filter.Category,
		Search:     s.Filter.Search,
		Sort:       string(s.Filter.Sort),
		Loaded:     s.Loaded,
		Error:      s.Error,
	}
}

type Address struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Landmark      string `json:"landmark,omitempty"`
	ZipCode       string `json:"zipcode"`
}

func fromAddress(a addressdomain.Address) Address {
	return Address{
		ID:            a.ID,
		Name:          a.Name,
		ContactNumber: a.ContactNumber,
		Street:        a.Street,
		City:          a.City,
		State:         a.State,
		Landmark:      a.Landmark,
		ZipCode:       a.Zipcode,
	}
}

func fromAddresses(list []addressdomain.Address) []Address {
	out := make([]Address, 0, len(list))
	for _, a := range list {
		out = append(out, fromAddress(a))
	}
	return out
}

type AddressInput struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Landmark      string `json:"landmark"`
	ZipCode       string `json:"zipcode"`
}

func (in AddressInput) toDomain() addressdomain.Input {
	return addressdomain.Input{
		Name:          in.Name,
		ContactNumber: in.ContactNumber,
		Street:        in.Street,
		City:          in.City,
		State:         in.State,
		Landmark:      in.Landmark,
		ZipCode:       in.ZipCode,
	}
}

type ProductForm struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Manufacturer   string `json:"manufacturer"`
	AvailableItems string `json:"availableItems"`
	Price          string `json:"price"`
	Description    string `json:"description"`
	ImageURL       string `json:"imageUrl"`
}

func (f ProductForm) toDomain() admindomain.Form {
	return admindomain.Form{
		Name:           f.Name,
		Category:       f.Category,
		Manufacturer:   f.Manufacturer,
		AvailableItems: f.AvailableItems,
		Price:          f.Price,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
	}
}

func fromForm(f admindomain.Form) ProductForm {
	return ProductForm{
		Name:           f.Name,
		Category:       f.Category,
		Manufacturer:   f.Manufacturer,
		AvailableItems: f.AvailableItems,
		Price:          f.Price,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
	}
}

type DeleteRequest struct {
	Name string `json:"name"`
}

type StartOrderRequest struct {
	Quantity int `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type SelectAddressRequest struct {
	AddressID string `json:"addressId"`
}

// OrderView is the order placement wizard as rendered for the shopper.
type OrderView struct {
	ProductID  string          `json:"productId"`
	Step       string          `json:"step"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   int             `json:"quantity"`
	AddressID  string          `json:"addressId,omitempty"`
	Addresses  []Address       `json:"addresses"`
	Total      decimal.Decimal `json:"total"`
	Validation string          `json:"validation,omitempty"`
	Error      string          `json:"error,omitempty"`
	Aborted    bool            `json:"aborted,omitempty"`
	OrderID    string          `json:"orderId,omitempty"`
	Navigation *Navigation     `json:"navigation,omitempty"`
}

func fromOrderView(v orderapp.View) OrderView {
	out := OrderView{
		ProductID:  v.ProductID,
		Step:       v.Step.String(),
		Quantity:   v.Quantity,
		AddressID:  v.AddressID,
		Addresses:  fromAddresses(v.Addresses),
		Total:      v.Total,
		Validation: v.Validation,
		Error:      v.Error,
		Aborted:    v.Aborted,
	}
	if v.Mounted {
		p := fromProduct(v.Product)
		out.Product = &p
	}
	if v.Order != nil {
		out.OrderID = v.Order.ID
	}
	return out
}
