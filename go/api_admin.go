package storefrontserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	navports "github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// AdminAPI exposes the product mutation flows to administrators.
type AdminAPI struct {
	workspaces *Workspaces
	inbox      navports.Inbox
	logger     *slog.Logger
}

func NewAdminAPI(workspaces *Workspaces, inbox navports.Inbox, logger *slog.Logger) AdminAPI {
	return AdminAPI{workspaces: workspaces, inbox: inbox, logger: logger}
}

// Post /api/admin/products
func (api *AdminAPI) CreateProduct(c *gin.Context) {
	var payload ProductForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	transition, err := api.workspaces.Get(sessionID(c)).Admin.CreateProduct(c.Request.Context(), payload.toDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	api.navigate(c, transition)
}

// Get /api/admin/products/:productId
// Prefills the edit form.
func (api *AdminAPI) LoadForEdit(c *gin.Context) {
	form, err := api.workspaces.Get(sessionID(c)).Admin.LoadForEdit(c.Request.Context(), c.Param("productId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromForm(form))
}

// Put /api/admin/products/:productId
func (api *AdminAPI) UpdateProduct(c *gin.Context) {
	var payload ProductForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	transition, err := api.workspaces.Get(sessionID(c)).Admin.UpdateProduct(c.Request.Context(), c.Param("productId"), payload.toDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	api.navigate(c, transition)
}

// Post /api/admin/products/:productId/delete
// Opens the delete confirmation. The name defaults to the loaded product's.
func (api *AdminAPI) RequestDelete(c *gin.Context) {
	var payload DeleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			responder.BadRequest(c, err.Error())
			return
		}
	}
	id := strings.TrimSpace(c.Param("productId"))
	ws := api.workspaces.Get(sessionID(c))
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		product, ok := ws.Catalog.Product(id)
		if !ok {
			responder.NotFound(c, "product", id)
			return
		}
		name = product.Name
	}
	ws.Admin.RequestDelete(id, name)
	c.JSON(http.StatusOK, PendingDelete{ID: id, Name: name})
}

// Get /api/admin/delete
func (api *AdminAPI) PendingDelete(c *gin.Context) {
	pending, ok := api.workspaces.Get(sessionID(c)).Admin.Pending()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, PendingDelete{ID: pending.ID, Name: pending.Name})
}

// Post /api/admin/delete/confirm
// Answers with the refreshed catalog and the single outcome notification.
func (api *AdminAPI) ConfirmDelete(c *gin.Context) {
	ws := api.workspaces.Get(sessionID(c))
	n, err := ws.Admin.ConfirmDelete(c.Request.Context())
	if err != nil && (apierrors.Is(err, apierrors.KindValidation) || apierrors.Is(err, apierrors.KindSessionExpired)) {
		abortWithError(c, err)
		return
	}
	view := fromCatalogState(ws.Catalog.State())
	view.Notification = &n
	c.JSON(http.StatusOK, view)
}

// Post /api/admin/delete/cancel
func (api *AdminAPI) CancelDelete(c *gin.Context) {
	api.workspaces.Get(sessionID(c)).Admin.CancelDelete()
	c.Status(http.StatusNoContent)
}

// navigate hands the transition's notification to the next view and tells
// the browser where to go.
func (api *AdminAPI) navigate(c *gin.Context, transition navdomain.Transition) {
	deliver(c, api.inbox, api.logger, transition)
	c.JSON(http.StatusOK, Navigation{Route: transition.Route})
}

func deliver(c *gin.Context, inbox navports.Inbox, logger *slog.Logger, transition navdomain.Transition) {
	if transition.Notification == nil {
		return
	}
	ctx := c.Request.Context()
	if err := inbox.Deliver(ctx, sessionID(c), *transition.Notification); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "notification delivery failed", slog.String("error", err.Error()))
	}
}
