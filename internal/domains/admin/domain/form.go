package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// MessageRequiredFields is shown when a required form field is blank.
const MessageRequiredFields = "Please fill all required fields"

var ErrInvalidNumber = errors.New("invalid number")

// Form is the add/edit product form as typed by the administrator. Numbers
// arrive as text and are coerced by Input.
type Form struct {
	Name           string `json:"name" validate:"required"`
	Category       string `json:"category" validate:"required"`
	Manufacturer   string `json:"manufacturer" validate:"required"`
	AvailableItems string `json:"availableItems" validate:"required"`
	Price          string `json:"price" validate:"required"`
	Description    string `json:"description"`
	ImageURL       string `json:"imageUrl"`
}

// FieldError names the form field that failed coercion.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

var validate = validator.New()

// Normalize trims every field.
func (f Form) Normalize() Form {
	return Form{
		Name:           strings.TrimSpace(f.Name),
		Category:       strings.TrimSpace(f.Category),
		Manufacturer:   strings.TrimSpace(f.Manufacturer),
		AvailableItems: strings.TrimSpace(f.AvailableItems),
		Price:          strings.TrimSpace(f.Price),
		Description:    strings.TrimSpace(f.Description),
		ImageURL:       strings.TrimSpace(f.ImageURL),
	}
}

// Validate reports missing required fields.
func (f Form) Validate() error {
	return validate.Struct(f.Normalize())
}

// MissingFields lists the json names of the required fields left blank.
func MissingFields(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, jsonName(fe.Field()))
	}
	return out
}

// Input coerces the form into a catalog payload. Zero available items is
// allowed; negative values and non-numbers are rejected per field.
func (f Form) Input() (catalogdomain.ProductInput, error) {
	f = f.Normalize()
	items, err := strconv.Atoi(f.AvailableItems)
	if err != nil {
		return catalogdomain.ProductInput{}, &FieldError{Field: "availableItems", Err: ErrInvalidNumber}
	}
	if items < 0 {
		return catalogdomain.ProductInput{}, &FieldError{Field: "availableItems", Err: catalogdomain.ErrNegativeQuantity}
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return catalogdomain.ProductInput{}, &FieldError{Field: "price", Err: ErrInvalidNumber}
	}
	if price.IsNegative() {
		return catalogdomain.ProductInput{}, &FieldError{Field: "price", Err: catalogdomain.ErrNegativePrice}
	}
	return catalogdomain.ProductInput{
		Name:           f.Name,
		Category:       f.Category,
		Price:          price,
		Description:    f.Description,
		Manufacturer:   f.Manufacturer,
		AvailableItems: items,
		ImageURL:       f.ImageURL,
	}, nil
}

// FormFor prefills the edit form from an existing product.
func FormFor(p catalogdomain.Product) Form {
	return Form{
		Name:           p.Name,
		Category:       p.Category,
		Manufacturer:   p.Manufacturer,
		AvailableItems: strconv.Itoa(p.AvailableItems),
		Price:          p.Price.String(),
		Description:    p.Description,
		ImageURL:       p.ImageURL,
	}
}

func jsonName(field string) string {
	switch field {
	case "AvailableItems":
		return "availableItems"
	case "ImageURL":
		return "imageUrl"
	default:
		return strings.ToLower(field)
	}
}
