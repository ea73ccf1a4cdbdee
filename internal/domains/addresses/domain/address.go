package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Shopper-facing messages.
const (
	MessageRequiredFields = "Please fill all required fields"
	MessageFetchFailed    = "Failed to fetch addresses"
	MessageSaveFailed     = "Failed to save address"
)

// Address is a saved delivery address. Addresses are immutable once created.
type Address struct {
	ID            string
	Name          string
	ContactNumber string
	Street        string
	City          string
	State         string
	Landmark      string
	Zipcode       string
}

// Input is the new-address form. Landmark is optional.
type Input struct {
	Name          string `validate:"required"`
	ContactNumber string `validate:"required"`
	Street        string `validate:"required"`
	City          string `validate:"required"`
	State         string `validate:"required"`
	Landmark      string
	ZipCode       string `validate:"required"`
}

var validate = validator.New()

// Normalize trims every field.
func (in Input) Normalize() Input {
	return Input{
		Name:          strings.TrimSpace(in.Name),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Street:        strings.TrimSpace(in.Street),
		City:          strings.TrimSpace(in.City),
		State:         strings.TrimSpace(in.State),
		Landmark:      strings.TrimSpace(in.Landmark),
		ZipCode:       strings.TrimSpace(in.ZipCode),
	}
}

// Validate reports the missing required fields, if any.
func (in Input) Validate() error {
	return validate.Struct(in.Normalize())
}

// MissingFields lists the wire names of the required fields left blank.
func MissingFields(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, wireName(fe.Field()))
	}
	return out
}

func wireName(field string) string {
	switch field {
	case "ContactNumber":
		return "contactNumber"
	default:
		return strings.ToLower(field)
	}
}
