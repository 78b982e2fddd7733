package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mirrorCustomer stores a customer directly in the mirror, bypassing the
// platform push of the API.
func (suite *TestSuiteStandard) mirrorCustomer(customer models.Customer) models.Customer {
	if customer.DisplayName == "" {
		customer.DisplayName = uuid.NewString()
	}
	if !customer.Platform.Valid() {
		customer.Platform = platform.QuickBooks
	}

	suite.Require().NoError(models.DB.Create(&customer).Error)
	return customer
}

func (suite *TestSuiteStandard) TestCustomersOptions() {
	existing := suite.mirrorCustomer(models.Customer{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No customer with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Customer exists", existing.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodOptions, fmt.Sprintf("/v1/customers/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCustomersCreateQuickBooks() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Customer": {"Id": "77", "DisplayName": "Jane's Bakery"}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/customers", v1.CustomerEditable{
		Platform:    platform.QuickBooks,
		DisplayName: "Jane's Bakery",
		Email:       "jane@example.com",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "77", response.Data.PlatformID)
	assert.True(suite.T(), response.Data.Active)
	assert.Equal(suite.T(), 1, stub.hits)

	var stored models.Customer
	suite.Require().NoError(models.DB.First(&stored, response.Data.ID).Error)
	assert.Equal(suite.T(), "77", stored.PlatformID)
}

func (suite *TestSuiteStandard) TestCustomersCreateXero() {
	stub := suite.stubXero(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Contacts": [{"ContactID": "f9ad5f54-0001-0002-0003-90d10f4e1c34", "Name": "Jane's Bakery"}]}`)
	})
	suite.connect(platform.Xero)

	r := suite.request(suite.T(), http.MethodPost, "/v1/customers", v1.CustomerEditable{
		Platform:    platform.Xero,
		DisplayName: "Jane's Bakery",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "f9ad5f54-0001-0002-0003-90d10f4e1c34", response.Data.PlatformID)
	assert.Equal(suite.T(), 1, stub.hits)
}

// TestCustomersCreateUpstreamRejected verifies that the mirror row is
// rolled back when the platform rejects the record.
func (suite *TestSuiteStandard) TestCustomersCreateUpstreamRejected() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		jsonResponse(w, `{"Fault": {"Error": [{"Message": "Duplicate Name Exists Error"}]}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/customers", v1.CustomerEditable{
		Platform:    platform.QuickBooks,
		DisplayName: "Jane's Bakery",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count, "the customer must not be kept when the platform rejected it")
}

func (suite *TestSuiteStandard) TestCustomersCreateInvalid() {
	stub := suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	tests := []struct {
		name string
		body any
	}{
		{"Empty body", ""},
		{"Missing display name", v1.CustomerEditable{Platform: platform.QuickBooks}},
		{"Missing platform", v1.CustomerEditable{DisplayName: "Jane's Bakery"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodPost, "/v1/customers", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}

	assert.Equal(suite.T(), 0, stub.hits, "invalid records must not be pushed")
}

func (suite *TestSuiteStandard) TestCustomersGetPagination() {
	for i := 0; i < 12; i++ {
		suite.mirrorCustomer(models.Customer{DisplayName: fmt.Sprintf("Customer %02d", i)})
	}

	r := suite.request(suite.T(), http.MethodGet, "/v1/customers", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ListResponse[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 10, "the page size defaults to 10")
	assert.Equal(suite.T(), 1, response.Pagination.Page)
	assert.Equal(suite.T(), 10, response.Pagination.PageSize)
	assert.Equal(suite.T(), 10, response.Pagination.Count)
	assert.Equal(suite.T(), int64(12), response.Pagination.Total)
	assert.Equal(suite.T(), "Customer 00", response.Data[0].DisplayName)

	r = suite.request(suite.T(), http.MethodGet, "/v1/customers?page=2", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), 2, response.Pagination.Page)
	assert.Equal(suite.T(), int64(12), response.Pagination.Total)
	assert.Equal(suite.T(), "Customer 10", response.Data[0].DisplayName)
}

// TestCustomersGetSearchReset verifies that clearing the search term
// restores the unfiltered collection starting at page 1.
func (suite *TestSuiteStandard) TestCustomersGetSearchReset() {
	for i := 0; i < 12; i++ {
		suite.mirrorCustomer(models.Customer{DisplayName: fmt.Sprintf("Customer %02d", i)})
	}

	r := suite.request(suite.T(), http.MethodGet, "/v1/customers?searchTerm=Customer+11", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ListResponse[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), int64(1), response.Pagination.Total)

	r = suite.request(suite.T(), http.MethodGet, "/v1/customers?searchTerm=", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), 1, response.Pagination.Page)
	assert.Equal(suite.T(), 10, response.Pagination.Count)
	assert.Equal(suite.T(), int64(12), response.Pagination.Total, "an empty search term must return the full collection")
}

func (suite *TestSuiteStandard) TestCustomersGetSearch() {
	suite.mirrorCustomer(models.Customer{DisplayName: "Jane's Bakery"})
	suite.mirrorCustomer(models.Customer{DisplayName: "Roadrunner Freight"})
	suite.mirrorCustomer(models.Customer{DisplayName: "Acme", Email: "sales@bakery.example"})

	tests := []struct {
		term    string
		results int
	}{
		{"BAKERY", 2}, // case insensitive, matches display name and email
		{"roadrunner", 1},
		{"nothing-like-this", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.term, func(t *testing.T) {
			r := suite.request(t, http.MethodGet, "/v1/customers?searchTerm="+tt.term, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ListResponse[models.Customer]
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.results)
		})
	}
}

func (suite *TestSuiteStandard) TestCustomersGetPlatformFilter() {
	suite.mirrorCustomer(models.Customer{Platform: platform.QuickBooks})
	suite.mirrorCustomer(models.Customer{Platform: platform.QuickBooks})
	suite.mirrorCustomer(models.Customer{Platform: platform.Xero})

	r := suite.request(suite.T(), http.MethodGet, "/v1/customers?platform=xero", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ListResponse[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(suite.T(), platform.Xero, response.Data[0].Platform)

	r = suite.request(suite.T(), http.MethodGet, "/v1/customers?platform=freshbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestCustomersUpdate verifies that a partial update only touches the
// submitted fields and pushes the full record upstream.
func (suite *TestSuiteStandard) TestCustomersUpdate() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"Customer": {"Id": "55"}}`)
	})
	suite.connect(platform.QuickBooks)

	existing := suite.mirrorCustomer(models.Customer{
		DisplayName: "Jane's Bakery",
		Email:       "jane@example.com",
		PlatformID:  "55",
	})

	r := suite.request(suite.T(), http.MethodPatch, "/v1/customers/"+existing.ID.String(), map[string]string{
		"email": "orders@example.com",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[models.Customer]
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "orders@example.com", response.Data.Email)
	assert.Equal(suite.T(), "Jane's Bakery", response.Data.DisplayName, "fields not in the body must be kept")
	assert.Equal(suite.T(), 1, stub.hits)
}

// TestCustomersUpdateInvalid verifies that the validation rules also
// apply to partial updates: blanking a required field is rejected and
// neither the mirror row nor the platform are touched.
func (suite *TestSuiteStandard) TestCustomersUpdateInvalid() {
	stub := suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	existing := suite.mirrorCustomer(models.Customer{
		DisplayName: "Jane's Bakery",
		PlatformID:  "55",
	})

	r := suite.request(suite.T(), http.MethodPatch, "/v1/customers/"+existing.ID.String(), map[string]string{
		"displayName": "",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), 0, stub.hits)

	var customer models.Customer
	suite.Require().NoError(models.DB.First(&customer, existing.ID).Error)
	assert.Equal(suite.T(), "Jane's Bakery", customer.DisplayName, "the invalid update must be rolled back")
}

// TestCustomersDeleteLocalOnly verifies that rows which never made it to
// a platform are deleted without any upstream call.
func (suite *TestSuiteStandard) TestCustomersDeleteLocalOnly() {
	stub := suite.stubQuickBooks(nil)

	existing := suite.mirrorCustomer(models.Customer{DisplayName: "Draft customer"})

	r := suite.request(suite.T(), http.MethodDelete, "/v1/customers/"+existing.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), 0, stub.hits)

	r = suite.request(suite.T(), http.MethodGet, "/v1/customers/"+existing.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCustomersDeleteQuickBooks() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		// The soft delete is a sparse update setting Active to false
		if !strings.Contains(r.URL.Path, "/customer") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonResponse(w, `{"Customer": {"Id": "55", "Active": false}}`)
	})
	suite.connect(platform.QuickBooks)

	existing := suite.mirrorCustomer(models.Customer{DisplayName: "Jane's Bakery", PlatformID: "55"})

	r := suite.request(suite.T(), http.MethodDelete, "/v1/customers/"+existing.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), 1, stub.hits)
}

func (suite *TestSuiteStandard) TestCustomersSync() {
	stub := suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"QueryResponse": {"Customer": [
			{"Id": "1", "DisplayName": "Jane's Bakery", "Active": true},
			{"Id": "2", "DisplayName": "Roadrunner Freight", "Active": true}
		]}}`)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodPost, "/v1/customers/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 2, response.Data.Synced)
	assert.Equal(suite.T(), 1, stub.hits)

	// Syncing again must update the existing rows, not duplicate them
	r = suite.request(suite.T(), http.MethodPost, "/v1/customers/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *TestSuiteStandard) TestCustomersSyncNotConnected() {
	suite.stubQuickBooks(nil)

	r := suite.request(suite.T(), http.MethodPost, "/v1/customers/sync?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestCustomersSyncNoPlatform() {
	r := suite.request(suite.T(), http.MethodPost, "/v1/customers/sync", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.Response[v1.SyncResult]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "the platform query parameter must be set", *response.Error)
}
