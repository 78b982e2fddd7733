// Package router wires the middleware chain and the route table.
package router

import (
	"net/http"
	"strings"

	"github.com/acctsync/backend/internal/config"
	v1 "github.com/acctsync/backend/internal/controllers/v1"
	"github.com/acctsync/backend/internal/httputil"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is set at build time with ldflags.
var version = "0.0.0"

// Router controls the routes for the API.
func Router(cfg config.Config) (*gin.Engine, error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if cfg.CORSAllowOrigins != "" {
		log.Debug().Str("allowOrigins", cfg.CORSAllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(cfg.CORSAllowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	/*
	 *  Route setup
	 */
	r.GET("", GetRoot)
	r.OPTIONS("", OptionsRoot)
	r.GET("/version", GetVersion)
	r.OPTIONS("/version", OptionsVersion)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.EnablePprof {
		pprof.Register(r, "debug/pprof")
	}

	// API v1 setup
	ctrl := v1.NewController(cfg)

	group := r.Group("/v1")
	{
		group.GET("", GetV1)
		group.OPTIONS("", OptionsV1)
	}

	ctrl.RegisterAuthRoutes(group.Group("/auth"))
	ctrl.RegisterCustomerRoutes(group.Group("/customers"))
	ctrl.RegisterVendorRoutes(group.Group("/vendors"))
	ctrl.RegisterProductRoutes(group.Group("/products"))
	ctrl.RegisterInvoiceRoutes(group.Group("/invoices"))
	ctrl.RegisterBillRoutes(group.Group("/bills"))
	ctrl.RegisterAccountRoutes(group.Group("/accounts"))
	ctrl.RegisterImportRoutes(group.Group("/import"))

	log.Info().Msg("backend startup complete")

	return r, nil
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Version string `json:"version" example:"https://example.com/version"`
	Metrics string `json:"metrics" example:"https://example.com/metrics"`
	V1      string `json:"v1" example:"https://example.com/v1"`
}

// GetRoot is the entrypoint for the API, listing all endpoints.
func GetRoot(c *gin.Context) {
	url := requestHost(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// GetVersion returns the software version of the API.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Auth      string `json:"auth" example:"https://example.com/v1/auth"`
	Customers string `json:"customers" example:"https://example.com/v1/customers"`
	Vendors   string `json:"vendors" example:"https://example.com/v1/vendors"`
	Products  string `json:"products" example:"https://example.com/v1/products"`
	Invoices  string `json:"invoices" example:"https://example.com/v1/invoices"`
	Bills     string `json:"bills" example:"https://example.com/v1/bills"`
	Accounts  string `json:"accounts" example:"https://example.com/v1/accounts"`
	Import    string `json:"import" example:"https://example.com/v1/import"`
}

// GetV1 returns general information about the v1 API.
func GetV1(c *gin.Context) {
	url := requestHost(c) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Auth:      url + "/auth",
			Customers: url + "/customers",
			Vendors:   url + "/vendors",
			Products:  url + "/products",
			Invoices:  url + "/invoices",
			Bills:     url + "/bills",
			Accounts:  url + "/accounts",
			Import:    url + "/import",
		},
	})
}

func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}

// requestHost reconstructs the external URL of the backend. The scheme
// defaults to http and only switches when a reverse proxy says so.
func requestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	host := c.Request.Host
	if forwarded := c.Request.Header.Get("x-forwarded-host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host
}
