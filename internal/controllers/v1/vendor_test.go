package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) mirrorVendor(vendor models.Vendor) models.Vendor {
	vendor.Platform = platform.QuickBooks
	if vendor.DisplayName == "" {
		vendor.DisplayName = uuid.NewString()
	}
	if vendor.CompanyName == "" {
		vendor.CompanyName = "Acme Inc."
	}
	if vendor.Phone == "" {
		vendor.Phone = "555-0100"
	}

	suite.Require().NoError(models.DB.Create(&vendor).Error)
	return vendor
}

func (suite *TestSuiteStandard) TestVendorsCreate() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Vendor": {"Id": "31", "DisplayName": "Acme Supplies"}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/vendors", v1.VendorEditable{
		DisplayName: "Acme Supplies",
		CompanyName: "Acme Inc.",
		Phone:       "555-0100",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[models.Vendor]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "31", response.Data.PlatformID)
	assert.Equal(suite.T(), platform.QuickBooks, response.Data.Platform)
	assert.Equal(suite.T(), 1, stub.hits)
}

// TestVendorsCreateRequiredFields verifies the QuickBooks vendor rules:
// display name, phone and company name must all be set.
func (suite *TestSuiteStandard) TestVendorsCreateRequiredFields() {
	stub := suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	tests := []struct {
		name    string
		body    v1.VendorEditable
		message string
	}{
		{
			"Missing display name",
			v1.VendorEditable{CompanyName: "Acme Inc.", Phone: "555-0100"},
			"the display name must be set",
		},
		{
			"Missing phone",
			v1.VendorEditable{DisplayName: "Acme Supplies", CompanyName: "Acme Inc."},
			"QuickBooks vendors require a phone number",
		},
		{
			"Missing company name",
			v1.VendorEditable{DisplayName: "Acme Supplies", Phone: "555-0100"},
			"QuickBooks vendors require a company name",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodPost, "/v1/vendors", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.Response[models.Vendor]
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.message, *response.Error)
		})
	}

	assert.Equal(suite.T(), 0, stub.hits)
}

func (suite *TestSuiteStandard) TestVendorsUpdate() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Vendor": {"Id": "31"}}`)
	})
	suite.connect(platform.QuickBooks)

	existing := suite.mirrorVendor(models.Vendor{DisplayName: "Acme Supplies", PlatformID: "31"})

	r := suite.request(suite.T(), http.MethodPatch, "/v1/vendors/"+existing.ID.String(), map[string]string{
		"email": "billing@acme.test",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[models.Vendor]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "billing@acme.test", response.Data.Email)
	assert.Equal(suite.T(), "Acme Supplies", response.Data.DisplayName)
	assert.Equal(suite.T(), 1, stub.hits)
}

// TestVendorsUpdateInvalid verifies that the required-field rules also
// apply to partial updates of console vendors.
func (suite *TestSuiteStandard) TestVendorsUpdateInvalid() {
	stub := suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	existing := suite.mirrorVendor(models.Vendor{DisplayName: "Acme Supplies"})

	r := suite.request(suite.T(), http.MethodPatch, "/v1/vendors/"+existing.ID.String(), map[string]string{
		"phone": "",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), 0, stub.hits)

	var vendor models.Vendor
	suite.Require().NoError(models.DB.First(&vendor, existing.ID).Error)
	assert.Equal(suite.T(), "555-0100", vendor.Phone, "the invalid update must be rolled back")
}

// TestVendorsSyncQuickBooksOnly verifies that the vendor collection
// cannot be synced from Xero.
func (suite *TestSuiteStandard) TestVendorsSyncQuickBooksOnly() {
	stub := suite.stubXero(nil)
	suite.connect(platform.Xero)

	r := suite.request(suite.T(), http.MethodPost, "/v1/vendors/sync?platform=xero", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "this collection only exists on QuickBooks", *response.Error)
	assert.Equal(suite.T(), 0, stub.hits)
}

func (suite *TestSuiteStandard) TestVendorsSync() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"QueryResponse": {"Vendor": [
			{"Id": "7", "DisplayName": "Acme Supplies", "CompanyName": "Acme Inc.", "PrimaryPhone": {"FreeFormNumber": "555-0100"}, "Active": true}
		]}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/vendors/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 1, response.Data.Synced)

	var stored models.Vendor
	suite.Require().NoError(models.DB.Where("platform_id = ?", "7").First(&stored).Error)
	assert.Equal(suite.T(), "Acme Supplies", stored.DisplayName)
	assert.Equal(suite.T(), "555-0100", stored.Phone)
}

// TestVendorsSyncMissingContact verifies that records without phone or
// company name are mirrored anyway. QuickBooks allows such vendors, the
// required-field rules only bind console submissions.
func (suite *TestSuiteStandard) TestVendorsSyncMissingContact() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"QueryResponse": {"Vendor": [
			{"Id": "7", "DisplayName": "Acme Supplies", "Active": true}
		]}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/vendors/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 1, response.Data.Synced)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Vendor{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(1), count)
}
