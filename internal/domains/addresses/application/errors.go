package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// ErrInvalidInput signals the form failed local validation.
var ErrInvalidInput = errors.New("invalid address input")

func validationError(err error) error {
	return apierrors.WrapKind(apierrors.KindValidation, fmt.Errorf("%w: %w", ErrInvalidInput, err), domain.MessageRequiredFields)
}

// mapError replaces the collaborator's detail with a single generic message.
func mapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return apierrors.Wrap(err, message)
}
