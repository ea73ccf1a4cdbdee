package storefrontserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	navports "github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// OrderAPI drives the order placement wizard, one workflow per product.
type OrderAPI struct {
	workspaces *Workspaces
	inbox      navports.Inbox
	logger     *slog.Logger
}

func NewOrderAPI(workspaces *Workspaces, inbox navports.Inbox, logger *slog.Logger) OrderAPI {
	return OrderAPI{workspaces: workspaces, inbox: inbox, logger: logger}
}

// Post /api/orders/:productId
// Mounts a fresh workflow. quantity carries the pick from the details view.
func (api *OrderAPI) Start(c *gin.Context) {
	var payload StartOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			responder.BadRequest(c, err.Error())
			return
		}
	}
	productID := strings.TrimSpace(c.Param("productId"))
	wf := api.workspaces.Get(sessionID(c)).StartOrder(productID, payload.Quantity)
	if err := wf.Mount(c.Request.Context()); err != nil {
		failWithView(c, wf, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Get /api/orders/:productId
func (api *OrderAPI) Get(c *gin.Context) {
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Put /api/orders/:productId/quantity
func (api *OrderAPI) SetQuantity(c *gin.Context) {
	var payload QuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	if err := wf.SetQuantity(payload.Quantity); err != nil {
		failWithView(c, wf, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Put /api/orders/:productId/address
func (api *OrderAPI) SelectAddress(c *gin.Context) {
	var payload SelectAddressRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	if err := wf.SelectAddress(payload.AddressID); err != nil {
		failWithView(c, wf, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Post /api/orders/:productId/addresses
// Saves a new address and answers once the refreshed list is in the view.
func (api *OrderAPI) CreateAddress(c *gin.Context) {
	var payload AddressInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	if _, err := wf.CreateAddress(c.Request.Context(), payload.toDomain()); err != nil {
		failWithView(c, wf, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Post /api/orders/:productId/next
// A completed order hands its notification to the product listing, reloads
// the catalog so stock counts are current and forgets the workflow.
func (api *OrderAPI) Next(c *gin.Context) {
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	outcome, err := wf.Next(c.Request.Context())
	if err != nil {
		failWithView(c, wf, err)
		return
	}
	view := fromOrderView(wf.View())
	if outcome.Step == orderdomain.StepCompleted && outcome.Transition != nil {
		deliver(c, api.inbox, api.logger, *outcome.Transition)
		view.Navigation = &Navigation{Route: outcome.Transition.Route}
		ws := api.workspaces.Get(sessionID(c))
		if err := ws.Catalog.Load(c.Request.Context()); err != nil {
			api.logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "catalog refresh after order failed", slog.String("error", err.Error()))
		}
		ws.EndOrder(wf.ProductID())
	}
	c.JSON(http.StatusOK, view)
}

// Post /api/orders/:productId/back
func (api *OrderAPI) Back(c *gin.Context) {
	wf, ok := api.workflow(c)
	if !ok {
		return
	}
	if _, err := wf.Back(c.Request.Context()); err != nil {
		failWithView(c, wf, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(wf.View()))
}

// Delete /api/orders/:productId
// Leaving the wizard discards any in-flight result.
func (api *OrderAPI) End(c *gin.Context) {
	api.workspaces.Get(sessionID(c)).EndOrder(strings.TrimSpace(c.Param("productId")))
	c.Status(http.StatusNoContent)
}

func (api *OrderAPI) workflow(c *gin.Context) (*orderapp.Workflow, bool) {
	productID := strings.TrimSpace(c.Param("productId"))
	wf, ok := api.workspaces.Get(sessionID(c)).Order(productID)
	if !ok {
		respondProblem(c, apierrors.ErrNotFound.WithDetail("No order in progress for this product"))
		return nil, false
	}
	return wf, true
}

// failWithView records err and attaches the workflow view to the problem.
func failWithView(c *gin.Context, wf *orderapp.Workflow, err error) {
	c.Set(ctxErrorView, fromOrderView(wf.View()))
	abortWithError(c, err)
}
