package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var (
	ErrInvalidForm     = errors.New("invalid product form")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// verb selects the create or modify wording of a mutation failure.
type verb struct {
	forbidden string
	rejected  string
	transport string
}

var (
	creating = verb{
		forbidden: "You are not authorized to create products. Please check your permissions.",
		rejected:  "Failed to create product",
		transport: "Error creating product",
	}
	modifying = verb{
		forbidden: "You are not authorized to modify this product. Please check your permissions.",
		rejected:  "Failed to modify product",
		transport: "Error modifying product",
	}
)

func formError(err error) error {
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		msg := fmt.Sprintf("Invalid %s", fieldErr.Field)
		return apierrors.WrapKind(apierrors.KindValidation, fmt.Errorf("%w: %w", ErrInvalidForm, err), msg)
	}
	return apierrors.WrapKind(apierrors.KindValidation, fmt.Errorf("%w: %w", ErrInvalidForm, err), domain.MessageRequiredFields)
}

func mutationError(err error, v verb) error {
	status, message, ok := apierrors.ResponseOf(err)
	switch {
	case !ok:
		return apierrors.Wrap(err, v.transport)
	case status == http.StatusForbidden:
		return apierrors.WrapKind(apierrors.KindAuthorization, err, v.forbidden)
	case message != "":
		return apierrors.Wrap(err, message)
	default:
		return apierrors.Wrap(err, v.rejected)
	}
}
