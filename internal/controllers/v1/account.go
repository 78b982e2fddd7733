package v1

import (
	"errors"
	"net/http"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAccountRoutes registers the routes for the chart of accounts
// with the RouterGroup that is passed. The chart of accounts is read
// only, rows are listed and synced but never edited here.
func (ctrl *Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", ctrl.GetAccounts)
	r.POST("/sync", ctrl.SyncAccounts)
}

func (ctrl *Controller) GetAccounts(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		renderError(c, err)
		return
	}
	query = query.sanitized()

	q, err := filtered(
		models.DB.Model(&models.LedgerAccount{}).Order("name ASC"),
		query, "name", "account_type", "classification",
	)
	if err != nil {
		renderError(c, err)
		return
	}

	list[models.LedgerAccount](c, q, query)
}

func (ctrl *Controller) SyncAccounts(c *gin.Context) {
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

	var incoming []models.LedgerAccount
	switch p {
	case platform.QuickBooks:
		records, err := ctrl.QBO.Accounts(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	case platform.Xero:
		records, err := ctrl.Xero.Accounts(c.Request.Context(), token)
		if err != nil {
			renderError(c, err)
			return
		}
		for _, record := range records {
			incoming = append(incoming, record.Model())
		}
	}

	for _, record := range incoming {
		if err := upsertAccount(models.DB, record); err != nil {
			renderError(c, err)
			return
		}
	}

	data := SyncResult{Platform: p, Synced: len(incoming)}
	c.JSON(http.StatusOK, Response[SyncResult]{Data: &data})
}

func upsertAccount(db *gorm.DB, record models.LedgerAccount) error {
	var existing models.LedgerAccount
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
