package v1_test

import (
	"net/http"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAccountsSyncQuickBooks() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"QueryResponse": {"Account": [
			{"Id": "64", "Name": "Office Supplies", "AccountType": "Expense", "Classification": "Expense"},
			{"Id": "79", "Name": "Sales of Product Income", "AccountType": "Income", "Classification": "Revenue"}
		]}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/accounts/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 2, response.Data.Synced)
}

func (suite *TestSuiteStandard) TestAccountsSyncXero() {
	suite.stubXero(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Accounts": [
			{"AccountID": "acc-1", "Code": "200", "Name": "Sales", "Type": "REVENUE", "Class": "REVENUE", "Status": "ACTIVE"}
		]}`)
	})
	suite.connect(platform.Xero)

	r := suite.request(suite.T(), http.MethodPost, "/v1/accounts/sync?platform=xero", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 1, response.Data.Synced)

	var stored models.LedgerAccount
	suite.Require().NoError(models.DB.Where("platform_id = ?", "acc-1").First(&stored).Error)
	assert.Equal(suite.T(), "200", stored.Code)
}

// TestAccountsReadOnly verifies that the chart of accounts has no write
// endpoints.
func (suite *TestSuiteStandard) TestAccountsReadOnly() {
	r := suite.request(suite.T(), http.MethodGet, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(suite.T(), http.MethodPost, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound, http.StatusMethodNotAllowed)
}

func (suite *TestSuiteStandard) TestAccountsGetSearch() {
	accounts := []models.LedgerAccount{
		{Platform: platform.QuickBooks, PlatformID: "64", Name: "Office Supplies", AccountType: "Expense"},
		{Platform: platform.QuickBooks, PlatformID: "79", Name: "Sales of Product Income", AccountType: "Income"},
		{Platform: platform.Xero, PlatformID: "acc-1", Name: "Sales", AccountType: "REVENUE"},
	}
	for _, account := range accounts {
		suite.Require().NoError(models.DB.Create(&account).Error)
	}

	r := suite.request(suite.T(), http.MethodGet, "/v1/accounts?searchTerm=sales", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ListResponse[models.LedgerAccount]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)

	r = suite.request(suite.T(), http.MethodGet, "/v1/accounts?searchTerm=sales&platform=xero", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 1)
}
