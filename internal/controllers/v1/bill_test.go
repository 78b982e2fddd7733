package v1_test

import (
	"net/http"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestBillsCreateAmounts verifies the expense line amount rules: account
// based lines are floored at 0.01, item based lines are not.
func (suite *TestSuiteStandard) TestBillsCreateAmounts() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Bill": {"Id": "44"}}`)
	})
	suite.connect(platform.QuickBooks)

	vendor := suite.mirrorVendor(models.Vendor{PlatformID: "7"})

	r := suite.request(suite.T(), http.MethodPost, "/v1/bills", v1.BillEditable{
		DocNumber: "BILL-0007",
		VendorID:  vendor.ID,
		Lines: []v1.BillLineEditable{
			{DetailType: models.BillLineAccountBased, AccountID: "64", Description: "Office supplies"},
			{DetailType: models.BillLineItemBased, ItemID: "21", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(12.50)},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[models.Bill]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "44", response.Data.PlatformID)
	assert.Equal(suite.T(), platform.QuickBooks, response.Data.Platform)
	suite.Require().Len(response.Data.Lines, 2)

	// The account based line has no price, so the 0.01 floor applies
	assert.True(suite.T(), response.Data.Lines[0].Amount.Equal(decimal.NewFromFloat(0.01)), "amount is %s", response.Data.Lines[0].Amount)
	assert.True(suite.T(), response.Data.Lines[1].Amount.Equal(decimal.NewFromFloat(37.50)), "amount is %s", response.Data.Lines[1].Amount)
	assert.True(suite.T(), response.Data.Total.Equal(decimal.NewFromFloat(37.51)), "total is %s", response.Data.Total)
	assert.Equal(suite.T(), 1, stub.hits)
}

func (suite *TestSuiteStandard) TestBillsCreateInvalidDetailType() {
	stub := suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	vendor := suite.mirrorVendor(models.Vendor{})

	r := suite.request(suite.T(), http.MethodPost, "/v1/bills", v1.BillEditable{
		VendorID: vendor.ID,
		Lines: []v1.BillLineEditable{
			{DetailType: "SomethingElse", AccountID: "64"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.Response[models.Bill]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrBillLineDetailTypeInvalid.Error(), *response.Error)
	assert.Equal(suite.T(), 0, stub.hits)
}

func (suite *TestSuiteStandard) TestBillsSync() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"QueryResponse": {"Bill": [
			{
				"Id": "88", "DocNumber": "BILL-0007", "TxnDate": "2024-05-01", "DueDate": "2024-05-31",
				"VendorRef": {"value": "7"},
				"Line": [
					{"DetailType": "AccountBasedExpenseLineDetail", "Amount": 45.00, "Description": "Office supplies",
					 "AccountBasedExpenseLineDetail": {"AccountRef": {"value": "64"}}}
				]
			}
		]}}`)
	})
	suite.connect(platform.QuickBooks)

	vendor := suite.mirrorVendor(models.Vendor{PlatformID: "7"})

	r := suite.request(suite.T(), http.MethodPost, "/v1/bills/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 1, response.Data.Synced)

	var stored models.Bill
	suite.Require().NoError(models.DB.Preload("Lines").Where("platform_id = ?", "88").First(&stored).Error)
	assert.Equal(suite.T(), vendor.ID, stored.VendorID)
	suite.Require().Len(stored.Lines, 1)
	assert.Equal(suite.T(), "64", stored.Lines[0].AccountID)
	assert.True(suite.T(), stored.Total.Equal(decimal.NewFromInt(45)), "total is %s", stored.Total)
}

func (suite *TestSuiteStandard) TestBillsSyncXeroRejected() {
	suite.connect(platform.Xero)

	r := suite.request(suite.T(), http.MethodPost, "/v1/bills/sync?platform=xero", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
