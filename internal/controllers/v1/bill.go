package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/platform/qbo"
	"github.com/acctsync/backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterBillRoutes registers the routes for bills with
// the RouterGroup that is passed. Bills only exist on QuickBooks.
func (ctrl *Controller) RegisterBillRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", ctrl.GetBills)
		r.POST("", ctrl.CreateBill)
		r.POST("/sync", ctrl.SyncBills)
	}

	// Bill with ID
	{
		r.OPTIONS("/:id", OptionsBillDetail)
		r.GET("/:id", ctrl.GetBill)
		r.PATCH("/:id", ctrl.UpdateBill)
		r.DELETE("/:id", ctrl.DeleteBill)
	}
}

func OptionsBillDetail(c *gin.Context) {
	optionsDetail(c, models.Bill{})
}

// BillLineEditable represents one submitted bill line. DetailType
// selects between a category (account based) and an item based line.
type BillLineEditable struct {
	DetailType  string          `json:"detailType" example:"AccountBasedExpenseLineDetail"`
	AccountID   string          `json:"accountId" example:"64"` // Account based lines
	ItemID      string          `json:"itemId" example:"21"`    // Item based lines
	Description string          `json:"description" example:"Office supplies"`
	Quantity    decimal.Decimal `json:"quantity" example:"3"`
	UnitPrice   decimal.Decimal `json:"unitPrice" example:"12.50"`
}

// BillEditable represents all user configurable parameters
type BillEditable struct {
	DocNumber string             `json:"docNumber" example:"BILL-0007"`
	VendorID  uuid.UUID          `json:"vendorId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	TxnDate   time.Time          `json:"txnDate" example:"2024-05-01T00:00:00Z"`
	DueDate   time.Time          `json:"dueDate" example:"2024-05-31T00:00:00Z"`
	Lines     []BillLineEditable `json:"lines"`
}

func (editable BillEditable) model() models.Bill {
	bill := models.Bill{
		Platform:  platform.QuickBooks,
		DocNumber: editable.DocNumber,
		VendorID:  editable.VendorID,
		TxnDate:   editable.TxnDate,
		DueDate:   editable.DueDate,
	}

	for _, line := range editable.Lines {
		bill.Lines = append(bill.Lines, models.BillLine{
			DetailType:  line.DetailType,
			AccountID:   line.AccountID,
			ItemID:      line.ItemID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	return bill
}

func (ctrl *Controller) GetBills(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.Bill{}).Preload("Lines").Order("txn_date DESC"),
		query, "doc_number",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.Bill](c, q, query)
}

func (ctrl *Controller) GetBill(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var bill models.Bill
	if err := models.DB.Preload("Lines").First(&bill, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Bill]{Data: &bill})
}

func (ctrl *Controller) CreateBill(c *gin.Context) {
	var editable BillEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	bill := editable.model()

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}

		if err := tx.Preload("Lines").Preload("Vendor").First(&bill, bill.ID).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		created, err := ctrl.QBO.CreateBill(c.Request.Context(), token, qbo.BillPayload(bill))
		if err != nil {
			return err
		}
		bill.PlatformID = created.ID

		return tx.Model(&bill).Update("platform_id", bill.PlatformID).Error
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Bill]{Data: &bill})
}

// UpdateBill replaces the bill and its lines with the submitted document
// and pushes it upstream.
func (ctrl *Controller) UpdateBill(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var bill models.Bill
	if err := models.DB.First(&bill, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	var editable BillEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	updated := editable.model()
	updated.DefaultModel = bill.DefaultModel
	updated.PlatformID = bill.PlatformID
	updated.Status = bill.Status

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillLine{}).Error; err != nil {
			return err
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&updated).Error; err != nil {
			return err
		}

		if err := tx.Preload("Lines").Preload("Vendor").First(&updated, updated.ID).Error; err != nil {
			return err
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		_, err = ctrl.QBO.UpdateBill(c.Request.Context(), token, qbo.BillPayload(updated))
		return err
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Bill]{Data: &updated})
}

func (ctrl *Controller) DeleteBill(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		renderError(c, err)
		return
	}

	var bill models.Bill
	if err := models.DB.First(&bill, uri.ID).Error; err != nil {
		renderError(c, err)
		return
	}

	if !bill.Deletable() {
		renderError(c, errNotDraftDeletable)
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&bill).Error; err != nil {
			return err
		}

		if bill.PlatformID == "" {
			return nil
		}

		token, err := session.Get(tx, platform.QuickBooks)
		if err != nil {
			return err
		}

		return ctrl.QBO.DeleteBill(c.Request.Context(), token, bill.PlatformID)
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncBills pulls all bills from QuickBooks into the mirror. Bills whose
// vendor has not been synced yet are skipped.
func (ctrl *Controller) SyncBills(c *gin.Context) {
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

	wires, err := ctrl.QBO.Bills(c.Request.Context(), token)
	if err != nil {
		renderError(c, err)
		return
	}

	var incoming []models.Bill
	for _, wire := range wires {
		if record, ok := qboBillModel(models.DB, wire); ok {
			incoming = append(incoming, record)
		}
	}

	for _, record := range incoming {
		if err := upsertBill(models.DB, record); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(incoming)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

// qboBillModel converts the wire bill and resolves the vendor reference
// against the mirror.
func qboBillModel(db *gorm.DB, wire qbo.Bill) (models.Bill, bool) {
	bill := wire.Model()
	if len(bill.Lines) == 0 {
		return bill, false
	}

	var vendor models.Vendor
	err := db.
		Where("platform = ? AND platform_id = ?", platform.QuickBooks, wire.VendorRef.Value).
		First(&vendor).Error
	if err != nil {
		return bill, false
	}
	bill.VendorID = vendor.ID

	return bill, true
}

func upsertBill(db *gorm.DB, record models.Bill) error {
	var existing models.Bill
	err := db.
		Where("platform = ? AND platform_id = ?", record.Platform, record.PlatformID).
		First(&existing).Error
	if err == nil {
		if err := db.Where("bill_id = ?", existing.ID).Delete(&models.BillLine{}).Error; err != nil {
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
