package errors

import (
	stderrors "errors"
	"strings"
)

// Kind classifies failures the storefront surfaces to shoppers and administrators.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a local, pre-network failure that blocks a transition.
	KindValidation
	// KindAuthorization maps a 403 from the Commerce API.
	KindAuthorization
	// KindNotFound means a product or address id does not exist.
	KindNotFound
	// KindNetwork means the Commerce API could not be reached.
	KindNetwork
	// KindSessionExpired maps a 401 from the Commerce API.
	KindSessionExpired
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindSessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// Error carries a user-visible message plus the classified cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Classified is implemented by collaborator errors that know their own kind.
type Classified interface {
	Kind() Kind
}

// Validation builds a local validation failure.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Wrap attaches a user-visible message to err, inheriting its kind.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindOf(err), Message: message, Err: err}
}

// WrapKind attaches a message and an explicit kind to err.
func WrapKind(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf walks the error chain and returns the first classification found.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var own *Error
	if stderrors.As(err, &own) && own.Kind != KindUnknown {
		return own.Kind
	}
	var classified Classified
	if stderrors.As(err, &classified) {
		return classified.Kind()
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the outermost user-visible message, or fallback.
func MessageOf(err error, fallback string) string {
	var own *Error
	if stderrors.As(err, &own) {
		if msg := strings.TrimSpace(own.Message); msg != "" {
			return msg
		}
	}
	return fallback
}

// Response is implemented by collaborator errors that carry an HTTP answer.
type Response interface {
	StatusCode() int
	ServerMessage() string
}

// ResponseOf reports the HTTP status and server message behind err. ok is
// false when the failure happened before any response was received.
func ResponseOf(err error) (status int, message string, ok bool) {
	var res Response
	if err == nil || !stderrors.As(err, &res) {
		return 0, "", false
	}
	return res.StatusCode(), strings.TrimSpace(res.ServerMessage()), true
}
