package v1_test

import (
	"net/http"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/test"
	"github.com/stretchr/testify/assert"
)

const vendorCSVHeader = "displayName,companyName,email,phone,balance\n"

func (suite *TestSuiteStandard) TestImportVendors() {
	body, headers := test.CSVFile(suite.T(), "vendors.csv", vendorCSVHeader+
		"Acme Supplies,Acme Inc.,billing@acme.test,555-0100,320.00\n"+
		"Roadrunner Freight,Roadrunner LLC,,555-0101,0\n")

	r := suite.request(suite.T(), http.MethodPost, "/v1/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var result v1.ImportResult
	test.DecodeResponse(suite.T(), &r, &result)
	assert.Equal(suite.T(), 2, result.Created)
	assert.Empty(suite.T(), result.Errors)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Vendor{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(2), count)
}

// TestImportVendorsRowErrors verifies that a file with invalid rows
// creates nothing and reports all row errors together. The response is
// HTTP 200 with the verbatim message the console matches on.
func (suite *TestSuiteStandard) TestImportVendorsRowErrors() {
	body, headers := test.CSVFile(suite.T(), "vendors.csv", vendorCSVHeader+
		"Acme Supplies,Acme Inc.,billing@acme.test,555-0100,320.00\n"+
		",Acme Inc.,,555-0100,0\n"+
		"Roadrunner Freight,Roadrunner LLC,,555-0101,not-a-number\n")

	r := suite.request(suite.T(), http.MethodPost, "/v1/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var result v1.ImportResult
	test.DecodeResponse(suite.T(), &r, &result)
	assert.Equal(suite.T(), "Validation failed.", result.Message)
	assert.Equal(suite.T(), []string{
		"Row 3: display name is required",
		"Row 4: balance could not be parsed to a decimal",
	}, result.Errors)
	assert.Zero(suite.T(), result.Created)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Vendor{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count, "nothing is created when any row is invalid")
}

func (suite *TestSuiteStandard) TestImportWrongFileSuffix() {
	body, headers := test.CSVFile(suite.T(), "vendors.xlsx", "not,a,csv")

	r := suite.request(suite.T(), http.MethodPost, "/v1/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestImportNoFile() {
	r := suite.request(suite.T(), http.MethodPost, "/v1/import", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
