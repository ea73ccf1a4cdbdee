package domain

import (
	"errors"
	"strings"
)

// Step is a stage of the order placement state machine.
type Step int

const (
	StepSelectingProduct Step = iota
	StepSelectingAddress
	StepConfirming
	StepSubmitting
	StepCompleted
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepSelectingProduct:
		return "selecting_product"
	case StepSelectingAddress:
		return "selecting_address"
	case StepConfirming:
		return "confirming"
	case StepSubmitting:
		return "submitting"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Step) Terminal() bool {
	return s == StepCompleted
}

// Shopper-facing messages.
const (
	MessageSelectAddress      = "Please select address!"
	MessageQuantityOutOfRange = "Please enter a quantity between 1 and the available quantity"
	MessageProductFetchFailed = "Failed to fetch product details"
	MessageAddressFetchFailed = "Failed to fetch addresses"
	MessageOrderFailed        = "Failed to place order"
	MessageOrderForbidden     = "You are not authorized to place this order. Please check your permissions."
	MessageOrderPlaced        = "Order placed successfully!"
)

var (
	ErrMissingProduct  = errors.New("order product id is required")
	ErrMissingAddress  = errors.New("order address id is required")
	ErrInvalidQuantity = errors.New("order quantity must be at least one")
)

// OrderRequest is the payload of the order-creation call. It only exists for
// the duration of the submission.
type OrderRequest struct {
	ProductID string
	AddressID string
	Quantity  int
}

// Validate enforces the invariants every submitted order must satisfy.
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrMissingProduct
	}
	if strings.TrimSpace(r.AddressID) == "" {
		return ErrMissingAddress
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Order is the Commerce API's acknowledgement of a placed order.
type Order struct {
	ID        string
	ProductID string
	AddressID string
	Quantity  int
}
