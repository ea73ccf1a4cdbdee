package domain

import (
	"context"
	"slices"
	"strings"
)

// RoleAdmin is the Commerce API role that unlocks catalog mutation.
const RoleAdmin = "ADMIN"

// Session holds the client-side login and role flags.
type Session struct {
	LoggedIn bool
	IsAdmin  bool
	Token    string
	Username string
	Roles    []string
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the sign-up form.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	ContactNumber   string
}

// Grant is what the Commerce API returns for a successful sign-in.
type Grant struct {
	Token string
	Roles []string
}

// FromGrant builds the logged-in session for username.
func FromGrant(username string, grant Grant) Session {
	return Session{
		LoggedIn: true,
		IsAdmin:  HasRole(grant.Roles, RoleAdmin),
		Token:    grant.Token,
		Username: strings.TrimSpace(username),
		Roles:    slices.Clone(grant.Roles),
	}
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role string) bool {
	return slices.ContainsFunc(roles, func(r string) bool {
		return strings.EqualFold(strings.TrimSpace(r), role)
	})
}

type contextKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
