// Package v1 implements the v1 API of the accounting console backend.
package v1

import (
	"net/http"
	"strings"

	"github.com/acctsync/backend/internal/config"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/platform/qbo"
	"github.com/acctsync/backend/internal/platform/xero"
	"github.com/acctsync/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller holds the platform connectors. The clients are fields so
// that tests can point them at stub servers.
type Controller struct {
	QBO  *qbo.Client
	Xero *xero.Client

	// StateSecret signs the OAuth state parameter.
	StateSecret string
}

func NewController(cfg config.Config) *Controller {
	return &Controller{
		QBO:         qbo.New(cfg.QuickBooks),
		Xero:        xero.New(cfg.Xero),
		StateSecret: cfg.StateSecret,
	}
}

type URIID struct {
	ID uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// ListQuery is the shared query parameter set of the collection
// endpoints. The parameters round-trip into the pagination block.
type ListQuery struct {
	Page       int    `form:"page"`       // Page to return, defaults to 1
	PageSize   int    `form:"pageSize"`   // Rows per page, defaults to 10
	SearchTerm string `form:"searchTerm"` // Case-insensitive substring search
	Platform   string `form:"platform"`   // Only rows of this platform, empty for all
}

func (q ListQuery) sanitized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	return q
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Page     int   `json:"page" example:"2"`       // The page returned in this response
	PageSize int   `json:"pageSize" example:"10"`  // The maximum amount of resources to return for this request
	Count    int   `json:"count" example:"10"`     // The amount of records returned in this response
	Total    int64 `json:"total" example:"827"`    // The total number of resources matching the query
}

type Response[T any] struct {
	Data  *T      `json:"data"`  // The resource, null when an error occurred
	Error *string `json:"error"` // The error, if any occurred
}

type ListResponse[T any] struct {
	Data       []T         `json:"data"`       // List of resources
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

// filtered applies the platform filter and the substring search of the
// query to the gorm query. Search matches any of the columns.
func filtered(q *gorm.DB, query ListQuery, searchColumns ...string) (*gorm.DB, error) {
	if query.Platform != "" {
		p, err := platform.Parse(query.Platform)
		if err != nil {
			return nil, err
		}
		q = q.Where("platform = ?", p)
	}

	if query.SearchTerm != "" {
		like := "%" + strings.ToLower(query.SearchTerm) + "%"

		conditions := make([]string, 0, len(searchColumns))
		args := make([]any, 0, len(searchColumns))
		for _, column := range searchColumns {
			conditions = append(conditions, "LOWER("+column+") LIKE ?")
			args = append(args, like)
		}
		q = q.Where(strings.Join(conditions, " OR "), args...)
	}

	return q, nil
}

// list runs the paginated query and renders the response. The query must
// already be scoped to the model and carry its filters and ordering.
func list[T any](c *gin.Context, q *gorm.DB, query ListQuery) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		renderError(c, err)
		return
	}

	var resources []T
	err := q.
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&resources).Error
	if err != nil {
		renderError(c, err)
		return
	}

	if resources == nil {
		resources = make([]T, 0)
	}

	c.JSON(http.StatusOK, ListResponse[T]{
		Data: resources,
		Pagination: &Pagination{
			Page:     query.Page,
			PageSize: query.PageSize,
			Count:    len(resources),
			Total:    total,
		},
	})
}

// SyncResult reports how many rows a sync pulled into the mirror.
type SyncResult struct {
	Platform platform.Platform `json:"platform" example:"xero"`
	Synced   int               `json:"synced" example:"42"`
}
