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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterInvoiceRoutes registers the routes for invoices with
// the RouterGroup that is passed.
func (ctrl *Controller) RegisterInvoiceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", ctrl.GetInvoices)
		r.POST("", ctrl.CreateInvoice)
		r.POST("/sync", ctrl.SyncInvoices)
	}

	// Invoice with ID
	{
		r.OPTIONS("/:id", OptionsInvoiceDetail)
		r.GET("/:id", ctrl.GetInvoice)
		r.PATCH("/:id", ctrl.UpdateInvoice)
		r.DELETE("/:id", ctrl.DeleteInvoice)
	}
}

func OptionsInvoiceDetail(c *gin.Context) {
	optionsDetail(c, models.Invoice{})
}

// InvoiceLineEditable represents one submitted invoice line. Amounts are
// never taken from the client, they are recomputed on save.
type InvoiceLineEditable struct {
	ProductID       *uuid.UUID      `json:"productId"`
	Description     string          `json:"description" example:"Consulting hour"`
	Quantity        decimal.Decimal `json:"quantity" example:"2"`
	UnitPrice       decimal.Decimal `json:"unitPrice" example:"95.00"`
	DiscountPercent decimal.Decimal `json:"discountPercent" example:"10"` // Xero only
	TaxRate         decimal.Decimal `json:"taxRate" example:"20"`         // Xero only
	AccountCode     string          `json:"accountCode" example:"200"`    // Xero only
}

// InvoiceEditable represents all user configurable parameters
type InvoiceEditable struct {
	Platform   platform.Platform     `json:"platform" example:"xero"`
	DocNumber  string                `json:"docNumber" example:"INV-0042"`
	Reference  string                `json:"reference" example:"PO-123"`
	CustomerID uuid.UUID             `json:"customerId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	TxnDate    time.Time             `json:"txnDate" example:"2024-05-01T00:00:00Z"`
	DueDate    time.Time             `json:"dueDate" example:"2024-05-31T00:00:00Z"`
	Status     string                `json:"status" example:"DRAFT"`
	Lines      []InvoiceLineEditable `json:"lines"`
}

func (editable InvoiceEditable) model() models.Invoice {
	invoice := models.Invoice{
		Platform:   editable.Platform,
		DocNumber:  editable.DocNumber,
		Reference:  editable.Reference,
		CustomerID: editable.CustomerID,
		TxnDate:    editable.TxnDate,
		DueDate:    editable.DueDate,
		Status:     editable.Status,
	}

	for _, line := range editable.Lines {
		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			ProductID:       line.ProductID,
			Description:     line.Description,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			TaxRate:         line.TaxRate,
			AccountCode:     line.AccountCode,
		})
	}

	return invoice
}

// applyProductDefaults fills empty line fields from the referenced
// product. Submitted values always win over the product defaults.
func applyProductDefaults(db *gorm.DB, lines []models.InvoiceLine) error {
	for n := range lines {
		if lines[n].ProductID == nil {
			continue
		}

		var product models.Product
		if err := db.First(&product, *lines[n].ProductID).Error; err != nil {
			return err
		}

		if lines[n].Description == "" {
			lines[n].Description = product.Description
		}
		if lines[n].UnitPrice.IsZero() {
			lines[n].UnitPrice = product.UnitPrice
		}
	}

	return nil
}

func (ctrl *Controller) GetInvoices(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.Invoice{}).Preload("Lines").Order("txn_date DESC"),
		query, "doc_number", "reference",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.Invoice](c, q, query)
}

func (ctrl *Controller) GetInvoice(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var invoice models.Invoice
	if err := models.DB.Preload("Lines").First(&invoice, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Invoice]{Data: &invoice})
}

// CreateInvoice stores the invoice with recomputed amounts and pushes it
// to its platform.
func (ctrl *Controller) CreateInvoice(c *gin.Context) {
	var editable InvoiceEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	invoice := editable.model()

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := applyProductDefaults(tx, invoice.Lines); err != nil {
			return err
		}

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		// Reload with the references the payload builders need
		if err := tx.Preload("Lines.Product").Preload("Customer").First(&invoice, invoice.ID).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, invoice.Platform)
		if err != nil {
			return err
		}

		switch invoice.Platform {
		case platform.QuickBooks:
			created, err := ctrl.QBO.CreateInvoice(c.Request.Context(), token, qbo.InvoicePayload(invoice))
			if err != nil {
				return err
			}
			invoice.PlatformID = created.ID
		case platform.Xero:
			created, err := ctrl.Xero.CreateInvoice(c.Request.Context(), token, xero.InvoicePayload(invoice))
			if err != nil {
				return err
			}
			invoice.PlatformID = created.InvoiceID
		}

		return tx.Model(&invoice).Update("platform_id", invoice.PlatformID).Error
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Invoice]{Data: &invoice})
}

// UpdateInvoice replaces the invoice and its lines with the submitted
// document and pushes it upstream. Invoice edits always submit the full
// document, there is no partial line update.
func (ctrl *Controller) UpdateInvoice(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var invoice models.Invoice
	if err := models.DB.First(&invoice, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	var editable InvoiceEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	updated := editable.model()
	updated.DefaultModel = invoice.DefaultModel
	updated.Platform = invoice.Platform
	updated.PlatformID = invoice.PlatformID

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}

		if err := applyProductDefaults(tx, updated.Lines); err != nil {
			return err
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&updated).Error; err != nil {
			return err
		}

		if err := tx.Preload("Lines.Product").Preload("Customer").First(&updated, updated.ID).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, updated.Platform)
		if err != nil {
			return err
		}

		switch updated.Platform {
		case platform.QuickBooks:
			_, err = ctrl.QBO.UpdateInvoice(c.Request.Context(), token, qbo.InvoicePayload(updated))
		case platform.Xero:
			_, err = ctrl.Xero.UpdateInvoice(c.Request.Context(), token, xero.InvoicePayload(updated))
		}

		return err
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Invoice]{Data: &updated})
}

// DeleteInvoice removes the invoice on the platform and in the mirror.
// Xero invoices can only be deleted while they are in DRAFT status, in
// every other status the platform is not called and HTTP 409 is returned.
func (ctrl *Controller) DeleteInvoice(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var invoice models.Invoice
	if err := models.DB.First(&invoice, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	if !invoice.Deletable() {
		renderError(c, errNotDraftDeletable)
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&invoice).Error; err != nil {
			return err
		}

		if invoice.PlatformID == "" {
			return nil
		}

		token, err := session.Get(tx, invoice.Platform)
		if err != nil {
			return err
		}

		switch invoice.Platform {
		case platform.QuickBooks:
			return ctrl.QBO.DeleteInvoice(c.Request.Context(), token, invoice.PlatformID)
		case platform.Xero:
			return ctrl.Xero.DeleteInvoice(c.Request.Context(), token, invoice.PlatformID)
		}

		return nil
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncInvoices pulls all invoices of the platform into the mirror.
// Invoices whose customer has not been synced yet are skipped, syncing
// customers first resolves them.
func (ctrl *Controller) SyncInvoices(c *gin.Context) {
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

	var incoming []models.Invoice
	switch p {
	case platform.QuickBooks:
		wires, err := ctrl.QBO.Invoices(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, wire := range wires {
			if record, ok := qboInvoiceModel(models.DB, wire); ok {
				incoming = append(incoming, record)
			}
		}
	case platform.Xero:
		wires, err := ctrl.Xero.Invoices(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, wire := range wires {
			if record, ok := xeroInvoiceModel(models.DB, wire); ok {
				incoming = append(incoming, record)
			}
		}
	}

	for _, record := range incoming {
		if err := upsertInvoice(models.DB, record); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(incoming)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

// qboInvoiceModel converts the wire invoice and resolves the customer
// and product references against the mirror.
func qboInvoiceModel(db *gorm.DB, wire qbo.Invoice) (models.Invoice, bool) {
	invoice := wire.Model()
	if len(invoice.Lines) == 0 {
		return invoice, false
	}

	var customer models.Customer
	err := db.
		Where("platform = ? AND platform_id = ?", platform.QuickBooks, wire.CustomerRef.Value).
		First(&customer).Error
	if err != nil {
		return invoice, false
	}
	invoice.CustomerID = customer.ID

	n := 0
	for _, line := range wire.Line {
		if line.SalesItemLineDetail == nil {
			continue
		}

		var product models.Product
		err := db.
			Where("platform = ? AND platform_id = ?", platform.QuickBooks, line.SalesItemLineDetail.ItemRef.Value).
			First(&product).Error
		if err == nil {
			invoice.Lines[n].ProductID = &product.ID
		}
		n++
	}

	return invoice, true
}

func xeroInvoiceModel(db *gorm.DB, wire xero.Invoice) (models.Invoice, bool) {
	invoice := wire.Model()
	if len(invoice.Lines) == 0 {
		return invoice, false
	}

	var customer models.Customer
	err := db.
		Where("platform = ? AND platform_id = ?", platform.Xero, wire.Contact.ContactID).
		First(&customer).Error
	if err != nil {
		return invoice, false
	}
	invoice.CustomerID = customer.ID

	for n, item := range wire.LineItems {
		if item.ItemCode == "" {
			continue
		}

		var product models.Product
		err := db.
			Where("platform = ? AND code = ?", platform.Xero, item.ItemCode).
			First(&product).Error
		if err == nil {
			invoice.Lines[n].ProductID = &product.ID
		}
	}

	return invoice, true
}

func upsertInvoice(db *gorm.DB, record models.Invoice) error {
	var existing models.Invoice
	err := db.
		Where("platform = ? AND platform_id = ?", record.Platform, record.PlatformID).
		First(&existing).Error
	if err == nil {
		if err := db.Where("invoice_id = ?", existing.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}

		record.DefaultModel = existing.DefaultModel
		return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(&record).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&record).Error
}
