package v1

import (
	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// optionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func optionsDetail[R models.Customer | models.Vendor | models.Product | models.Invoice | models.Bill](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		renderError(c, err)
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		renderError(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
