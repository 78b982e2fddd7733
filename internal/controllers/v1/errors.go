package v1

import (
	"errors"
	"net/http"

	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Auth errors
var (
	errMissingParameters = errors.New("the code and state parameters must be set")
	errStateInvalid      = errors.New("the state parameter is invalid or expired")
)

// Sync errors
var (
	errPlatformNotSet    = errors.New("the platform query parameter must be set")
	errQuickBooksOnly    = errors.New("this collection only exists on QuickBooks")
	errNotDraftDeletable = errors.New("Xero only allows deleting documents in DRAFT status")
)

// Import errors
var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports .csv files")
)

// status returns the appropriate HTTP status for an error.
//
// Platform API errors pass their upstream status through so that the
// message the console shows matches what the platform said.
func status(err error) int {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusBadRequest {
			return apiErr.StatusCode
		}

		return http.StatusBadGateway
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, platform.ErrNotConnected) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, errNotDraftDeletable) {
		return http.StatusConflict
	}

	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

func renderError(c *gin.Context, err error) {
	e := err.Error()
	c.JSON(status(err), Response[struct{}]{Error: &e})
}
