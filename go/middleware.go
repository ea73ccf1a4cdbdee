package storefrontserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const (
	ctxSessionID = "storefront.session_id"
	ctxCookie    = "storefront.cookie"
	ctxErrorView = "storefront.error_view"
)

// CookieSettings controls the browser session cookie.
type CookieSettings struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// SessionMiddleware resolves the browser session and injects it into the
// request context. Browsers without a valid cookie get a fresh id.
func SessionMiddleware(store sessionports.Store, cookie CookieSettings, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxCookie, cookie)
		id, err := c.Cookie(cookie.Name)
		if err != nil || !validSessionID(id) {
			id = uuid.NewString()
			setSessionID(c, id)
		}
		ctx := c.Request.Context()
		session, err := store.Load(ctx, id)
		if err != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "session load failed, treating as logged out", slog.String("error", err.Error()))
			session = sessiondomain.Session{}
		}
		c.Set(ctxSessionID, id)
		c.Request = c.Request.WithContext(sessiondomain.NewContext(ctx, session))
		c.Next()
	}
}

// RequireCapability admits the request only if the session holds capability.
// Denials answer with the redirect the guard chose.
func RequireCapability(capability sessiondomain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		decision := sessiondomain.Admit(session, capability)
		if decision.Allowed {
			c.Next()
			return
		}
		problem := apierrors.ErrUnauthorized.WithDetail("Please log in to continue")
		if session.LoggedIn {
			problem = apierrors.ErrForbidden.WithDetail("You are not authorized to access this page")
		}
		respondProblem(c, problem.WithExtension("redirect", decision.Redirect))
		c.Abort()
	}
}

// setSessionID hands id to the browser and makes it the id of the current
// request.
func setSessionID(c *gin.Context, id string) {
	value, _ := c.Get(ctxCookie)
	cookie, _ := value.(CookieSettings)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, id, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
	c.Set(ctxSessionID, id)
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func currentSession(c *gin.Context) sessiondomain.Session {
	session, _ := sessiondomain.FromContext(c.Request.Context())
	return session
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
