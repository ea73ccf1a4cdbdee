package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sessionapp "github.com/Apurer/go-gin-storefront/internal/domains/session/application"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

// AuthAPI handles login, signup, logout and route guarding.
type AuthAPI struct {
	sessions   *sessionapp.Service
	workspaces *Workspaces
}

func NewAuthAPI(sessions *sessionapp.Service, workspaces *Workspaces) AuthAPI {
	return AuthAPI{sessions: sessions, workspaces: workspaces}
}

// Post /api/auth/login
// A successful login moves the session to a new id; the pre-login id is
// discarded along with its workspace.
func (api *AuthAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	previous := sessionID(c)
	next := uuid.NewString()
	session, transition, err := api.sessions.Login(ctx, next, sessiondomain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	api.rotate(c, previous, next)
	nav := fromTransition(transition)
	s := fromSession(session)
	nav.Session = &s
	c.JSON(http.StatusOK, nav)
}

// Post /api/auth/signup
func (api *AuthAPI) Signup(c *gin.Context) {
	var payload SignupRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	transition, err := api.sessions.Signup(c.Request.Context(), payload.toDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransition(transition))
}

// Post /api/auth/logout
// The browser leaves with a fresh, empty session id.
func (api *AuthAPI) Logout(c *gin.Context) {
	id := sessionID(c)
	transition, err := api.sessions.Logout(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	api.workspaces.Drop(id)
	setSessionID(c, uuid.NewString())
	c.JSON(http.StatusOK, fromTransition(transition))
}

// Get /api/session
func (api *AuthAPI) CurrentSession(c *gin.Context) {
	c.JSON(http.StatusOK, fromSession(currentSession(c)))
}

// Get /api/guard?path=/products/add
// Reports whether the session may open a storefront page.
func (api *AuthAPI) Guard(c *gin.Context) {
	path := c.Query("path")
	decision := GuardDecision{Path: path, Allowed: true}
	if capability, gated := sessiondomain.RequiredCapability(path); gated {
		d := sessiondomain.Admit(currentSession(c), capability)
		decision.Allowed = d.Allowed
		decision.Redirect = d.Redirect
	}
	c.JSON(http.StatusOK, decision)
}

// rotate points the browser at next and forgets everything kept under
// previous.
func (api *AuthAPI) rotate(c *gin.Context, previous, next string) {
	setSessionID(c, next)
	if previous != "" {
		api.sessions.Discard(c.Request.Context(), previous)
		api.workspaces.Drop(previous)
	}
}

// expire ends a session whose Commerce API token was rejected.
func (api *AuthAPI) expire(c *gin.Context) {
	id := sessionID(c)
	if id == "" {
		return
	}
	api.sessions.Expire(c.Request.Context(), id)
	api.workspaces.Drop(id)
}

// SessionExpiredHandler is the ErrorMiddleware hook for rejected tokens.
func (api *AuthAPI) SessionExpiredHandler() func(c *gin.Context) {
	return api.expire
}
