package v1

import (
	"errors"
	"net/http"

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

// RegisterCustomerRoutes registers the routes for customers with
// the RouterGroup that is passed.
func (ctrl *Controller) RegisterCustomerRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", ctrl.GetCustomers)
		r.POST("", ctrl.CreateCustomer)
		r.POST("/sync", ctrl.SyncCustomers)
	}

	// Customer with ID
	{
		r.OPTIONS("/:id", OptionsCustomerDetail)
		r.GET("/:id", ctrl.GetCustomer)
		r.PATCH("/:id", ctrl.UpdateCustomer)
		r.DELETE("/:id", ctrl.DeleteCustomer)
	}
}

func OptionsCustomerDetail(c *gin.Context) {
	optionsDetail(c, models.Customer{})
}

// CustomerEditable represents all user configurable parameters
type CustomerEditable struct {
	Platform    platform.Platform `json:"platform" example:"quickbooks"`
	DisplayName string            `json:"displayName" example:"Jane's Bakery"`
	GivenName   string            `json:"givenName" example:"Jane"`
	FamilyName  string            `json:"familyName" example:"Doe"`
	CompanyName string            `json:"companyName" example:"Jane's Bakery Ltd"`
	Email       string            `json:"email" example:"jane@example.com"`
	Phone       string            `json:"phone" example:"555-0100"`

	BillingLine1      string `json:"billingLine1" example:"1 Main Street"`
	BillingCity       string `json:"billingCity" example:"Springfield"`
	BillingState      string `json:"billingState" example:"OR"`
	BillingPostalCode string `json:"billingPostalCode" example:"97477"`
	BillingCountry    string `json:"billingCountry" example:"US"`

	Balance decimal.Decimal `json:"balance" example:"120.50"`
	Active  bool            `json:"active" example:"true" default:"true"`
}

func (editable CustomerEditable) model() models.Customer {
	return models.Customer{
		Platform:          editable.Platform,
		DisplayName:       editable.DisplayName,
		GivenName:         editable.GivenName,
		FamilyName:        editable.FamilyName,
		CompanyName:       editable.CompanyName,
		Email:             editable.Email,
		Phone:             editable.Phone,
		BillingLine1:      editable.BillingLine1,
		BillingCity:       editable.BillingCity,
		BillingState:      editable.BillingState,
		BillingPostalCode: editable.BillingPostalCode,
		BillingCountry:    editable.BillingCountry,
		Balance:           editable.Balance,
		Active:            editable.Active,
	}
}

// GetCustomers returns one page of the customer mirror.
func (ctrl *Controller) GetCustomers(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.Customer{}).Order("display_name ASC"),
		query, "display_name", "company_name", "email",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.Customer](c, q, query)
}

func (ctrl *Controller) GetCustomer(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var customer models.Customer
	if err := models.DB.First(&customer, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Customer]{Data: &customer})
}

// CreateCustomer stores the customer and pushes it to its platform. The
// mirror row is only kept when the platform accepted the record.
func (ctrl *Controller) CreateCustomer(c *gin.Context) {
	var editable CustomerEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	customer := editable.model()
	customer.Active = true

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, customer.Platform)
		if err != nil {
			return err
		}

		switch customer.Platform {
		case platform.QuickBooks:
			created, err := ctrl.QBO.CreateCustomer(c.Request.Context(), token, qbo.CustomerPayload(customer))
			if err != nil {
				return err
			}
			customer.PlatformID = created.ID
		case platform.Xero:
			created, err := ctrl.Xero.CreateContact(c.Request.Context(), token, xero.ContactPayload(customer))
			if err != nil {
				return err
			}
			customer.PlatformID = created.ContactID
		}

		return tx.Model(&customer).Update("platform_id", customer.PlatformID).Error
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Customer]{Data: &customer})
}

// UpdateCustomer updates the mirror row and pushes the change upstream.
// Only values to be updated need to be specified.
func (ctrl *Controller) UpdateCustomer(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var customer models.Customer
	if err := models.DB.First(&customer, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CustomerEditable{})
	if err != nil {
		renderError(c, err)
		return
	}

	var data CustomerEditable
	if err := httputil.BindData(c, &data); err != nil {
		renderError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&customer).Select("", updateFields...).Updates(data.model()).Error; err != nil {
			return err
		}

		if err := tx.First(&customer, customer.ID).Error; err != nil {
			return err
		}

		// Updates runs the hooks against the record as it was loaded, so
		// the validation rules are enforced on the merged record here
		if err := tx.Save(&customer).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, customer.Platform)
		if err != nil {
			return err
		}

		switch customer.Platform {
		case platform.QuickBooks:
			_, err = ctrl.QBO.UpdateCustomer(c.Request.Context(), token, qbo.CustomerPayload(customer))
		case platform.Xero:
			_, err = ctrl.Xero.UpdateContact(c.Request.Context(), token, xero.ContactPayload(customer))
		}

		return err
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Customer]{Data: &customer})
}

// DeleteCustomer removes the mirror row. QuickBooks customers are
// deactivated upstream, Xero contacts are archived.
func (ctrl *Controller) DeleteCustomer(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var customer models.Customer
	if err := models.DB.First(&customer, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&customer).Error; err != nil {
			return err
		}

		// Rows that never made it upstream are only deleted locally
		if customer.PlatformID == "" {
			return nil
		}

		token, err := session.Get(tx, customer.Platform)
		if err != nil {
			return err
		}

		switch customer.Platform {
		case platform.QuickBooks:
			return ctrl.QBO.DeactivateCustomer(c.Request.Context(), token, customer.PlatformID)
		case platform.Xero:
			return ctrl.Xero.ArchiveContact(c.Request.Context(), token, customer.PlatformID)
		}

		return nil
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncCustomers pulls all customers of the platform into the mirror.
func (ctrl *Controller) SyncCustomers(c *gin.Context) {
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

	var incoming []models.Customer
	switch p {
	case platform.QuickBooks:
		records, err := ctrl.QBO.Customers(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	case platform.Xero:
		records, err := ctrl.Xero.Contacts(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	}

	for _, record := range incoming {
		if err := upsertCustomer(models.DB, record); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(incoming)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

// upsertCustomer saves the incoming record, reusing the row that already
// mirrors the same platform record if there is one.
func upsertCustomer(db *gorm.DB, record models.Customer) error {
	var existing models.Customer
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
