package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/platform/qbo"
	"github.com/acctsync/backend/internal/platform/xero"
	"github.com/acctsync/backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterProductRoutes registers the routes for products with
// the RouterGroup that is passed.
func (ctrl *Controller) RegisterProductRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", ctrl.GetProducts)
		r.POST("", ctrl.CreateProduct)
		r.POST("/sync", ctrl.SyncProducts)
	}

	// Product with ID
	{
		r.OPTIONS("/:id", OptionsProductDetail)
		r.GET("/:id", ctrl.GetProduct)
		r.PATCH("/:id", ctrl.UpdateProduct)
		r.DELETE("/:id", ctrl.DeleteProduct)
	}
}

func OptionsProductDetail(c *gin.Context) {
	optionsDetail(c, models.Product{})
}

// ProductEditable represents all user configurable parameters
type ProductEditable struct {
	Platform    platform.Platform  `json:"platform" example:"xero"`
	Name        string             `json:"name" example:"Consulting hour"`
	Description string             `json:"description" example:"One hour of consulting"`
	UnitPrice   decimal.Decimal    `json:"unitPrice" example:"95.00"`
	Type        models.ProductType `json:"type" example:"Service"`

	IncomeAccount string `json:"incomeAccount" example:"Sales of Product Income"` // QuickBooks only

	Code             string `json:"code" example:"CONS-1"`          // Xero only
	SalesAccountCode string `json:"salesAccountCode" example:"200"` // Xero only

	AssetAccount       string          `json:"assetAccount" example:"Inventory Asset"`
	COGSAccountCode    string          `json:"cogsAccountCode" example:"Cost of Goods Sold"`
	QuantityOnHand     decimal.Decimal `json:"quantityOnHand" example:"25"`
	InventoryStartDate *time.Time      `json:"inventoryStartDate" example:"2024-01-01T00:00:00Z"`

	Active bool `json:"active" example:"true" default:"true"`
}

func (editable ProductEditable) model() models.Product {
	return models.Product{
		Platform:           editable.Platform,
		Name:               editable.Name,
		Description:        editable.Description,
		UnitPrice:          editable.UnitPrice,
		Type:               editable.Type,
		IncomeAccount:      editable.IncomeAccount,
		Code:               editable.Code,
		SalesAccountCode:   editable.SalesAccountCode,
		AssetAccount:       editable.AssetAccount,
		COGSAccountCode:    editable.COGSAccountCode,
		QuantityOnHand:     editable.QuantityOnHand,
		InventoryStartDate: editable.InventoryStartDate,
		Active:             editable.Active,
	}
}

func (ctrl *Controller) GetProducts(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.Product{}).Order("name ASC"),
		query, "name", "description", "code",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.Product](c, q, query)
}

func (ctrl *Controller) GetProduct(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var product models.Product
	if err := models.DB.First(&product, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Product]{Data: &product})
}

func (ctrl *Controller) CreateProduct(c *gin.Context) {
	var editable ProductEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	product := editable.model()
	product.Active = true

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, product.Platform)
		if err != nil {
			return err
		}

		switch product.Platform {
		case platform.QuickBooks:
			created, err := ctrl.QBO.CreateItem(c.Request.Context(), token, qbo.ItemPayload(product))
			if err != nil {
				return err
			}
			product.PlatformID = created.ID
		case platform.Xero:
			created, err := ctrl.Xero.CreateItem(c.Request.Context(), token, xero.ItemPayload(product))
			if err != nil {
				return err
			}
			product.PlatformID = created.ItemID
		}

		return tx.Model(&product).Update("platform_id", product.PlatformID).Error
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Product]{Data: &product})
}

func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var product models.Product
	if err := models.DB.First(&product, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProductEditable{})
	if err != nil {
		renderError(c, err)
		return
	}

	var data ProductEditable
	if err := httputil.BindData(c, &data); err != nil {
		renderError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Select("", updateFields...).Updates(data.model()).Error; err != nil {
			return err
		}

		if err := tx.First(&product, product.ID).Error; err != nil {
			return err
		}

		// Updates runs the hooks against the record as it was loaded, so
		// the validation rules are enforced on the merged record here
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, product.Platform)
		if err != nil {
			return err
		}

		switch product.Platform {
		case platform.QuickBooks:
			_, err = ctrl.QBO.UpdateItem(c.Request.Context(), token, qbo.ItemPayload(product))
		case platform.Xero:
			_, err = ctrl.Xero.UpdateItem(c.Request.Context(), token, xero.ItemPayload(product))
		}

		return err
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Product]{Data: &product})
}

// DeleteProduct removes the mirror row. QuickBooks items are deactivated
// upstream, Xero items are deleted through the Items endpoint.
func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var product models.Product
	if err := models.DB.First(&product, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}

		if product.PlatformID == "" {
			return nil
		}

		token, err := session.Get(tx, product.Platform)
		if err != nil {
			return err
		}

		switch product.Platform {
		case platform.QuickBooks:
			return ctrl.QBO.DeactivateItem(c.Request.Context(), token, product.PlatformID)
		case platform.Xero:
			return ctrl.Xero.DeleteItem(c.Request.Context(), token, product.PlatformID)
		}

		return nil
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *Controller) SyncProducts(c *gin.Context) {
	if c.Query("platform") == "" {
		renderError(c, errPlatformNotSet)
		return
	}

	p, err := platform.Parse(c.Query("platform"))
	if err != nil {
		renderError(c, err)
		return
	}

	token, err := session.Get(models.DB, p)
	if err != nil {
		renderError(c, err)
		return
	}

	var incoming []models.Product
	switch p {
	case platform.QuickBooks:
		records, err := ctrl.QBO.Items(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	case platform.Xero:
		records, err := ctrl.Xero.Items(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	}

	for _, record := range incoming {
		if err := upsertProduct(models.DB, record); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(incoming)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

func upsertProduct(db *gorm.DB, record models.Product) error {
	var existing models.Product
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
