package domain

import "strings"

// Capability is what a route requires of the session.
type Capability string

const (
	CapabilityAuthenticated Capability = "authenticated"
	CapabilityAdmin         Capability = "admin"
)

// Route surface gated by the guard.
const (
	RouteLogin    = "/login"
	RouteSignup   = "/signup"
	RouteProducts = "/products"
)

// Decision is the outcome of Admit.
type Decision struct {
	Allowed  bool
	Redirect string
}

var allow = Decision{Allowed: true}

// Admit decides whether s may enter a route requiring c.
func Admit(s Session, c Capability) Decision {
	switch c {
	case CapabilityAuthenticated:
		if !s.LoggedIn {
			return Decision{Redirect: RouteLogin}
		}
		return allow
	case CapabilityAdmin:
		if !s.LoggedIn {
			return Decision{Redirect: RouteLogin}
		}
		if !s.IsAdmin {
			return Decision{Redirect: RouteProducts}
		}
		return allow
	default:
		return Decision{Redirect: RouteLogin}
	}
}

// RequiredCapability maps a storefront path to the capability it needs.
// Public routes report false.
func RequiredCapability(path string) (Capability, bool) {
	path = "/" + strings.Trim(path, "/")
	if path == RouteLogin || path == RouteSignup {
		return "", false
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if parts[0] != strings.TrimPrefix(RouteProducts, "/") {
		return CapabilityAuthenticated, true
	}
	switch {
	case len(parts) == 2 && parts[1] == "add":
		return CapabilityAdmin, true
	case len(parts) == 3 && parts[2] == "edit":
		return CapabilityAdmin, true
	default:
		return CapabilityAuthenticated, true
	}
}
