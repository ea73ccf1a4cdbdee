package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Capability the session must hold; empty for public routes.
	Capability sessiondomain.Capability
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the storefront handlers.
type ApiHandleFunctions struct {
	AuthAPI    AuthAPI
	CatalogAPI CatalogAPI
	AdminAPI   AdminAPI
	OrderAPI   OrderAPI
	AddressAPI AddressAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the routes to an existing engine. middleware
// runs before every route, ahead of the capability check.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	api := router.Group("/api", middleware...)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Capability != "" {
			handlers = append([]gin.HandlerFunc{RequireCapability(route.Capability)}, handlers...)
		}
		api.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes with no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	authenticated := sessiondomain.CapabilityAuthenticated
	admin := sessiondomain.CapabilityAdmin
	return []Route{
		{"Login", http.MethodPost, "/auth/login", "", h.AuthAPI.Login},
		{"Signup", http.MethodPost, "/auth/signup", "", h.AuthAPI.Signup},
		{"Logout", http.MethodPost, "/auth/logout", "", h.AuthAPI.Logout},
		{"CurrentSession", http.MethodGet, "/session", "", h.AuthAPI.CurrentSession},
		{"Guard", http.MethodGet, "/guard", "", h.AuthAPI.Guard},

		{"ListProducts", http.MethodGet, "/products", authenticated, h.CatalogAPI.ListProducts},
		{"ListCategories", http.MethodGet, "/categories", authenticated, h.CatalogAPI.ListCategories},
		{"GetProduct", http.MethodGet, "/products/:productId", authenticated, h.CatalogAPI.GetProduct},

		{"CreateProduct", http.MethodPost, "/admin/products", admin, h.AdminAPI.CreateProduct},
		{"LoadProductForEdit", http.MethodGet, "/admin/products/:productId", admin, h.AdminAPI.LoadForEdit},
		{"UpdateProduct", http.MethodPut, "/admin/products/:productId", admin, h.AdminAPI.UpdateProduct},
		{"RequestDelete", http.MethodPost, "/admin/products/:productId/delete", admin, h.AdminAPI.RequestDelete},
		{"PendingDelete", http.MethodGet, "/admin/delete", admin, h.AdminAPI.PendingDelete},
		{"ConfirmDelete", http.MethodPost, "/admin/delete/confirm", admin, h.AdminAPI.ConfirmDelete},
		{"CancelDelete", http.MethodPost, "/admin/delete/cancel", admin, h.AdminAPI.CancelDelete},

		{"StartOrder", http.MethodPost, "/orders/:productId", authenticated, h.OrderAPI.Start},
		{"GetOrder", http.MethodGet, "/orders/:productId", authenticated, h.OrderAPI.Get},
		{"SetOrderQuantity", http.MethodPut, "/orders/:productId/quantity", authenticated, h.OrderAPI.SetQuantity},
		{"SelectOrderAddress", http.MethodPut, "/orders/:productId/address", authenticated, h.OrderAPI.SelectAddress},
		{"CreateOrderAddress", http.MethodPost, "/orders/:productId/addresses", authenticated, h.OrderAPI.CreateAddress},
		{"NextOrderStep", http.MethodPost, "/orders/:productId/next", authenticated, h.OrderAPI.Next},
		{"PreviousOrderStep", http.MethodPost, "/orders/:productId/back", authenticated, h.OrderAPI.Back},
		{"EndOrder", http.MethodDelete, "/orders/:productId", authenticated, h.OrderAPI.End},

		{"ListAddresses", http.MethodGet, "/addresses", authenticated, h.AddressAPI.ListAddresses},
		{"CreateAddress", http.MethodPost, "/addresses", authenticated, h.AddressAPI.CreateAddress},
	}
}
