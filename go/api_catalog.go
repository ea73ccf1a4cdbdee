package storefrontserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	navports "github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// CatalogAPI serves the product listing and details views.
type CatalogAPI struct {
	workspaces *Workspaces
	inbox      navports.Inbox
	logger     *slog.Logger
}

func NewCatalogAPI(workspaces *Workspaces, inbox navports.Inbox, logger *slog.Logger) CatalogAPI {
	return CatalogAPI{workspaces: workspaces, inbox: inbox, logger: logger}
}

// Get /api/products?category=&search=&sort=&refresh=
// Loads on first visit or on refresh. Filter inputs present in the query are
// applied before deriving. A pending notification is handed out once.
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	ws := api.workspaces.Get(sessionID(c))
	if !ws.Catalog.State().Loaded || c.Query("refresh") == "true" {
		// Other load failures render through the state's error message.
		if err := ws.Catalog.Load(ctx); apierrors.Is(err, apierrors.KindSessionExpired) {
			abortWithError(c, err)
			return
		}
	}
	if sort, ok := c.GetQuery("sort"); ok {
		if err := ws.Catalog.SetSort(sort); err != nil {
			abortWithError(c, err)
			return
		}
	}
	if category, ok := c.GetQuery("category"); ok {
		ws.Catalog.SetCategory(strings.TrimSpace(category))
	}
	if search, ok := c.GetQuery("search"); ok {
		ws.Catalog.SetSearch(search)
	}

	view := fromCatalogState(ws.Catalog.State())
	if pending, ok := ws.Admin.Pending(); ok {
		view.PendingDelete = &PendingDelete{ID: pending.ID, Name: pending.Name}
	}
	if n, ok, err := api.inbox.Consume(ctx, sessionID(c)); err != nil {
		api.logger.LogAttrs(ctx, slog.LevelWarn, "notification consume failed", slog.String("error", err.Error()))
	} else if ok {
		view.Notification = &n
	}
	c.JSON(http.StatusOK, view)
}

// Get /api/categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, api.workspaces.Get(sessionID(c)).Catalog.Categories())
}

// Get /api/products/:productId
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("productId"))
	if id == "" {
		responder.BadRequest(c, "product id is required")
		return
	}
	product, err := api.workspaces.Get(sessionID(c)).Catalog.Fetch(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}
