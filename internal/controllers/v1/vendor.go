package v1

import (
	"errors"
	"net/http"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/platform/qbo"
	"github.com/acctsync/backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterVendorRoutes registers the routes for vendors with
// the RouterGroup that is passed. Vendors only exist on QuickBooks.
func (ctrl *Controller) RegisterVendorRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", ctrl.GetVendors)
		r.POST("", ctrl.CreateVendor)
		r.POST("/sync", ctrl.SyncVendors)
	}

	// Vendor with ID
	{
		r.OPTIONS("/:id", OptionsVendorDetail)
		r.GET("/:id", ctrl.GetVendor)
		r.PATCH("/:id", ctrl.UpdateVendor)
		r.DELETE("/:id", ctrl.DeleteVendor)
	}
}

func OptionsVendorDetail(c *gin.Context) {
	optionsDetail(c, models.Vendor{})
}

// VendorEditable represents all user configurable parameters
type VendorEditable struct {
	DisplayName string          `json:"displayName" example:"Acme Supplies"`
	CompanyName string          `json:"companyName" example:"Acme Inc."`
	Email       string          `json:"email" example:"billing@acme.test"`
	Phone       string          `json:"phone" example:"555-0100"`
	Balance     decimal.Decimal `json:"balance" example:"320.00"`
	Active      bool            `json:"active" example:"true" default:"true"`
}

func (editable VendorEditable) model() models.Vendor {
	return models.Vendor{
		Platform:    platform.QuickBooks,
		DisplayName: editable.DisplayName,
		CompanyName: editable.CompanyName,
		Email:       editable.Email,
		Phone:       editable.Phone,
		Balance:     editable.Balance,
		Active:      editable.Active,
	}
}

func (ctrl *Controller) GetVendors(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.Vendor{}).Order("display_name ASC"),
		query, "display_name", "company_name", "email",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.Vendor](c, q, query)
}

func (ctrl *Controller) GetVendor(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var vendor models.Vendor
	if err := models.DB.First(&vendor, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Vendor]{Data: &vendor})
}

func (ctrl *Controller) CreateVendor(c *gin.Context) {
	var editable VendorEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	vendor := editable.model()
	vendor.Active = true

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vendor).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		created, err := ctrl.QBO.CreateVendor(c.Request.Context(), token, qbo.VendorPayload(vendor))
		if err != nil {
			return err
		}
		vendor.PlatformID = created.ID

		return tx.Model(&vendor).Update("platform_id", vendor.PlatformID).Error
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Vendor]{Data: &vendor})
}

func (ctrl *Controller) UpdateVendor(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var vendor models.Vendor
	if err := models.DB.First(&vendor, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, VendorEditable{})
	if err != nil {
		renderError(c, err)
		return
	}

	var data VendorEditable
	if err := httputil.BindData(c, &data); err != nil {
		renderError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&vendor).Select("", updateFields...).Updates(data.model()).Error; err != nil {
			return err
		}

		if err := tx.First(&vendor, vendor.ID).Error; err != nil {
			return err
		}

		// Updates runs the hooks against the record as it was loaded, so
		// the validation rules are enforced on the merged record here
		if err := tx.Save(&vendor).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		_, err = ctrl.QBO.UpdateVendor(c.Request.Context(), token, qbo.VendorPayload(vendor))
		return err
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Vendor]{Data: &vendor})
}

// DeleteVendor removes the mirror row and deactivates the vendor on
// QuickBooks.
func (ctrl *Controller) DeleteVendor(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var vendor models.Vendor
	if err := models.DB.First(&vendor, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&vendor).Error; err != nil {
			return err
		}

		if vendor.PlatformID == "" {
			return nil
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		return ctrl.QBO.DeactivateVendor(c.Request.Context(), token, vendor.PlatformID)
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *Controller) SyncVendors(c *gin.Context) {
	if c.Query("platform") == "" {
		renderError(c, errPlatformNotSet)
		return
	}

	p, err := platform.Parse(c.Query("platform"))
	if err != nil {
		renderError(c, err)
		return
	}
	if p != platform.QuickBooks {
		renderError(c, errQuickBooksOnly)
		return
	}

	token, err := session.Get(models.DB, p)
	if err != nil {
		renderError(c, err)
		return
	}

	records, err := ctrl.QBO.Vendors(c.Request.Context(), token)
	if err != nil {
		renderError(c, err)
		return
	}

	for _, record := range records {
		if err := upsertVendor(models.DB, record.Model()); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(records)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

func upsertVendor(db *gorm.DB, record models.Vendor) error {
	var existing models.Vendor
	err := db.
		Where("platform = ? AND platform_id = ?", record.Platform, record.PlatformID).
		First(&existing).Error
	if err == nil {
		record.DefaultModel = existing.DefaultModel
		return db.Save(&record).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&record).Error
}
