package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddressAPI exposes the shopper's saved addresses.
type AddressAPI struct {
	workspaces *Workspaces
}

func NewAddressAPI(workspaces *Workspaces) AddressAPI {
	return AddressAPI{workspaces: workspaces}
}

// Get /api/addresses
func (api *AddressAPI) ListAddresses(c *gin.Context) {
	list, err := api.workspaces.Get(sessionID(c)).Addresses.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAddresses(list))
}

// Post /api/addresses
func (api *AddressAPI) CreateAddress(c *gin.Context) {
	var payload AddressInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	created, err := api.workspaces.Get(sessionID(c)).Addresses.Create(c.Request.Context(), payload.toDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromAddress(created))
}
