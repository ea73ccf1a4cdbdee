package application

import (
	"errors"
	"net/http"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var (
	// ErrAborted is returned by every transition once the product fetch failed.
	ErrAborted = errors.New("order workflow aborted")
	// ErrStale reports a result that arrived after the workflow moved on or was unmounted.
	ErrStale = errors.New("order workflow result discarded")
	// ErrInvalidTransition is returned when an operation is not valid in the current step.
	ErrInvalidTransition = errors.New("transition not allowed in current step")
	// ErrUnknownAddress is returned when selecting an id that is not in the address list.
	ErrUnknownAddress = errors.New("address is not in the list")
)

func validation(message string, cause error) error {
	return apierrors.WrapKind(apierrors.KindValidation, cause, message)
}

// submissionError picks the message shown when the order call fails.
func submissionError(err error) error {
	if status, _, ok := apierrors.ResponseOf(err); ok && status == http.StatusForbidden {
		return apierrors.Wrap(err, domain.MessageOrderForbidden)
	}
	return apierrors.Wrap(err, domain.MessageOrderFailed)
}
