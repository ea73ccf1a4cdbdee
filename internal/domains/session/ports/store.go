package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

// ErrInvalidSessionID is returned when a store is asked for a blank id.
var ErrInvalidSessionID = errors.New("session id is required")

// Store abstracts session persistence. Load of an unknown id returns the zero
// (logged out) session.
type Store interface {
	Load(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, id string, session domain.Session) error
	Delete(ctx context.Context, id string) error
}

// Authenticator is the Commerce API auth surface.
type Authenticator interface {
	SignIn(ctx context.Context, credentials domain.Credentials) (domain.Grant, error)
	SignUp(ctx context.Context, registration domain.Registration) error
}
