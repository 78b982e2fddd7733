package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/importer"
	"github.com/acctsync/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// importFailedMessage is matched verbatim by the console to decide
// between the success banner and the error table.
const importFailedMessage = "Validation failed."

func (ctrl *Controller) RegisterImportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", ctrl.ImportVendors)
}

// ImportResult is the response of the CSV import. Unlike the other
// endpoints it is not wrapped in an envelope, the console reads the
// message and errors from the body root.
type ImportResult struct {
	Message string   `json:"message" example:"Validation failed."`
	Errors  []string `json:"errors,omitempty" example:"Row 3: display name is required"`
	Created int      `json:"created,omitempty" example:"17"`
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// ImportVendors parses the uploaded vendor CSV. When any row is invalid
// nothing is created and all row errors are reported together, otherwise
// all vendors from the file are created in the mirror. They are pushed
// to QuickBooks individually when edited, the import itself stays local.
func (ctrl *Controller) ImportVendors(c *gin.Context) {
	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		renderError(c, err)
		return
	}
	defer f.Close()

	vendors, rowErrors := importer.ParseVendors(f)
	if len(rowErrors) > 0 {
		c.JSON(http.StatusOK, ImportResult{
			Message: importFailedMessage,
			Errors:  rowErrors,
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, vendor := range vendors {
			if err := tx.Create(&vendor).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ImportResult{
		Message: fmt.Sprintf("%d vendors imported", len(vendors)),
		Created: len(vendors),
	})
}
