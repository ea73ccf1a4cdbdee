package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// Shopper-facing messages.
const (
	MessageInvalidCredentials = "Invalid username or password. Please try again."
	MessageLoginFailed        = "An error occurred during login"
	MessagePasswordMismatch   = "Passwords do not match"
	MessageSignupFailed       = "An error occurred during signup"
	MessageCredentialsMissing = "Please enter your email and password"
	MessageSignupIncomplete   = "Please fill all required fields"
	MessageSignupSucceeded    = "Registration successful! Please login."
)

var ErrMissingToken = errors.New("sign-in response carried no token")

// Service owns session state writes: login, signup and logout.
type Service struct {
	store  ports.Store
	auth   ports.Authenticator
	logger *slog.Logger
}

type Option func(*Service)

// WithLogger sets the logger used for auth failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store ports.Store, auth ports.Authenticator, opts ...Option) *Service {
	s := &Service{
		store:  store,
		auth:   auth,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Current returns the session for id; unknown ids are logged out.
func (s *Service) Current(ctx context.Context, id string) (domain.Session, error) {
	return s.store.Load(ctx, id)
}

// Login signs in against the Commerce API and stores the resulting session.
func (s *Service) Login(ctx context.Context, id string, credentials domain.Credentials) (domain.Session, navdomain.Transition, error) {
	credentials.Email = strings.TrimSpace(credentials.Email)
	if credentials.Email == "" || credentials.Password == "" {
		return domain.Session{}, navdomain.Transition{}, apierrors.Validation(MessageCredentialsMissing)
	}
	grant, err := s.auth.SignIn(ctx, credentials)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "sign-in failed", slog.String("error", err.Error()))
		return domain.Session{}, navdomain.Transition{}, loginError(err)
	}
	if grant.Token == "" {
		return domain.Session{}, navdomain.Transition{}, apierrors.Wrap(ErrMissingToken, MessageLoginFailed)
	}
	session := domain.FromGrant(credentials.Email, grant)
	if err := s.store.Save(ctx, id, session); err != nil {
		return domain.Session{}, navdomain.Transition{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "signed in", slog.String("username", session.Username), slog.Bool("admin", session.IsAdmin))
	return session, navdomain.Transition{Route: domain.RouteProducts}, nil
}

// Signup registers a new account. It never logs the shopper in.
func (s *Service) Signup(ctx context.Context, registration domain.Registration) (navdomain.Transition, error) {
	registration.Email = strings.TrimSpace(registration.Email)
	registration.FirstName = strings.TrimSpace(registration.FirstName)
	registration.LastName = strings.TrimSpace(registration.LastName)
	registration.ContactNumber = strings.TrimSpace(registration.ContactNumber)
	if registration.Email == "" || registration.Password == "" || registration.FirstName == "" {
		return navdomain.Transition{}, apierrors.Validation(MessageSignupIncomplete)
	}
	if registration.Password != registration.ConfirmPassword {
		return navdomain.Transition{}, apierrors.Validation(MessagePasswordMismatch)
	}
	if err := s.auth.SignUp(ctx, registration); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "sign-up failed", slog.String("error", err.Error()))
		return navdomain.Transition{}, apierrors.Wrap(err, serverMessageOr(err, MessageSignupFailed))
	}
	return navdomain.To(domain.RouteLogin, navdomain.Success(MessageSignupSucceeded)), nil
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context, id string) (navdomain.Transition, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		return navdomain.Transition{}, fmt.Errorf("delete session: %w", err)
	}
	return navdomain.Transition{Route: domain.RouteLogin}, nil
}

// Expire drops a session whose token the Commerce API rejected.
func (s *Service) Expire(ctx context.Context, id string) {
	s.Discard(ctx, id)
}

// Discard drops whatever is stored under id. Failures are logged only.
func (s *Service) Discard(ctx context.Context, id string) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to drop session", slog.String("error", err.Error()))
	}
}

func loginError(err error) error {
	status, _, ok := apierrors.ResponseOf(err)
	if ok && status == http.StatusBadRequest {
		return apierrors.WrapKind(apierrors.KindValidation, err, MessageInvalidCredentials)
	}
	// A 401 here means bad credentials, not an expired session.
	if ok && status == http.StatusUnauthorized {
		return apierrors.WrapKind(apierrors.KindValidation, err, serverMessageOr(err, MessageInvalidCredentials))
	}
	return apierrors.Wrap(err, serverMessageOr(err, MessageLoginFailed))
}

func serverMessageOr(err error, fallback string) string {
	if _, message, ok := apierrors.ResponseOf(err); ok && message != "" {
		return message
	}
	return fallback
}
