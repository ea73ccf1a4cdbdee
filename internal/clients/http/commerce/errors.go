package commerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// APIError is returned when the Commerce API answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("commerce API error (status %d)", e.Status)
	}
	return fmt.Sprintf("commerce API error: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) ServerMessage() string { return e.Message }

// Kind classifies the status for the storefront error taxonomy.
func (e *APIError) Kind() apierrors.Kind {
	switch e.Status {
	case http.StatusUnauthorized:
		return apierrors.KindSessionExpired
	case http.StatusForbidden:
		return apierrors.KindAuthorization
	case http.StatusNotFound:
		return apierrors.KindNotFound
	default:
		return apierrors.KindUnknown
	}
}

// TransportError wraps failures that happened before a response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("call commerce API %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Kind() apierrors.Kind { return apierrors.KindNetwork }

// StatusOf returns the HTTP status carried by err, or 0 when there was no response.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ServerMessage returns the message the Commerce API sent with a failure, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	message := strings.TrimSpace(body.Message)
	if message == "" {
		message = strings.TrimSpace(body.Error)
	}
	return &APIError{Status: res.StatusCode, Message: message}
}
