package v1_test

import (
	"net/http"
	"net/url"

	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAuthLogin() {
	suite.stubQuickBooks(nil)

	r := suite.request(suite.T(), http.MethodGet, "/v1/auth/login?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusFound)

	location, err := url.Parse(r.Header().Get("Location"))
	suite.Require().NoError(err)

	assert.Contains(suite.T(), location.Path, "/connect/oauth2")
	assert.NotEmpty(suite.T(), location.Query().Get("state"))
	assert.Equal(suite.T(), "code", location.Query().Get("response_type"))
}

func (suite *TestSuiteStandard) TestAuthLoginInvalidPlatform() {
	r := suite.request(suite.T(), http.MethodGet, "/v1/auth/login?platform=freshbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestAuthCallbackMissingParameters verifies that a callback without code
// or state fails without any token exchange.
func (suite *TestSuiteStandard) TestAuthCallbackMissingParameters() {
	stub := suite.stubQuickBooks(nil)

	tests := []string{
		`{}`,
		`{"code": "some-code"}`,
		`{"state": "some-state"}`,
	}

	for _, body := range tests {
		r := suite.request(suite.T(), http.MethodPost, "/v1/auth/callback", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

		var response v1.Response[v1.ConnectionStatus]
		test.DecodeResponse(suite.T(), &r, &response)
		assert.Equal(suite.T(), "the code and state parameters must be set", *response.Error)
	}

	assert.Equal(suite.T(), 0, stub.hits, "the code must not be exchanged")
}

func (suite *TestSuiteStandard) TestAuthCallbackInvalidState() {
	stub := suite.stubQuickBooks(nil)

	r := suite.request(suite.T(), http.MethodPost, "/v1/auth/callback", map[string]string{
		"code":  "some-code",
		"state": "not-a-signed-state",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), 0, stub.hits)
}

// TestAuthCallback walks through the full flow: the state issued by the
// login redirect is accepted by the callback, the code is exchanged and
// the connection is reported.
func (suite *TestSuiteStandard) TestAuthCallback() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, `{"access_token": "the-access-token", "refresh_token": "the-refresh-token"}`)
	})

	r := suite.request(suite.T(), http.MethodGet, "/v1/auth/login?platform=quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusFound)

	location, err := url.Parse(r.Header().Get("Location"))
	suite.Require().NoError(err)
	state := location.Query().Get("state")
	suite.Require().NotEmpty(state)

	r = suite.request(suite.T(), http.MethodPost, "/v1/auth/callback", map[string]string{
		"code":    "some-code",
		"state":   state,
		"realmId": "4620816365291604",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[v1.ConnectionStatus]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.QuickBooks)
	assert.False(suite.T(), response.Data.Xero)
}

func (suite *TestSuiteStandard) TestAuthStatus() {
	r := suite.request(suite.T(), http.MethodGet, "/v1/auth/status", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.ConnectionStatus]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.QuickBooks)
	assert.False(suite.T(), response.Data.Xero)

	suite.connect(platform.Xero)

	r = suite.request(suite.T(), http.MethodGet, "/v1/auth/status", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.QuickBooks)
	assert.True(suite.T(), response.Data.Xero)
}

func (suite *TestSuiteStandard) TestAuthDisconnect() {
	suite.stubQuickBooks(nil)
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodDelete, "/v1/auth/quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(suite.T(), http.MethodGet, "/v1/auth/status", "")
	var response v1.Response[v1.ConnectionStatus]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.QuickBooks)
}

// TestAuthDisconnectRevokeFails verifies that a failing upstream
// revocation still clears the local session.
func (suite *TestSuiteStandard) TestAuthDisconnectRevokeFails() {
	suite.stubQuickBooks(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	suite.connect(platform.QuickBooks)

	r := suite.request(suite.T(), http.MethodDelete, "/v1/auth/quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(suite.T(), http.MethodGet, "/v1/auth/status", "")
	var response v1.Response[v1.ConnectionStatus]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.QuickBooks)
}

func (suite *TestSuiteStandard) TestAuthDisconnectNotConnected() {
	r := suite.request(suite.T(), http.MethodDelete, "/v1/auth/quickbooks", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}
