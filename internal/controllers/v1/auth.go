package v1

import (
	"net/http"
	"time"

	"github.com/acctsync/backend/internal/httputil"
	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// stateLifetime limits how long a started OAuth flow stays valid.
const stateLifetime = 10 * time.Minute

func (ctrl *Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.GET("/login", ctrl.Login)
	r.POST("/callback", ctrl.Callback)
	r.GET("/status", ctrl.AuthStatus)
	r.DELETE("/:platform", ctrl.Disconnect)
}

type stateClaims struct {
	Platform string `json:"platform"`
	jwt.RegisteredClaims
}

// signState issues the OAuth state parameter: a short-lived signed token
// carrying the platform the flow was started for. Verifying it on the
// callback ties the code to the platform without any server-side state.
func (ctrl *Controller) signState(p platform.Platform) (string, error) {
	claims := stateClaims{
		Platform: string(p),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateLifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ctrl.StateSecret))
}

func (ctrl *Controller) parseState(state string) (platform.Platform, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errStateInvalid
		}

		return []byte(ctrl.StateSecret), nil
	})
	if err != nil {
		return "", errStateInvalid
	}

	return platform.Parse(claims.Platform)
}

// Login redirects the browser to the consent page of the platform.
func (ctrl *Controller) Login(c *gin.Context) {
	p, err := platform.Parse(c.Query("platform"))
	if err != nil {
		renderError(c, err)
		return
	}

	state, err := ctrl.signState(p)
	if err != nil {
		renderError(c, err)
		return
	}

	var authorizeURL string
	switch p {
	case platform.QuickBooks:
		authorizeURL = ctrl.QBO.AuthorizeURL(state)
	case platform.Xero:
		authorizeURL = ctrl.Xero.AuthorizeURL(state)
	}

	c.Redirect(http.StatusFound, authorizeURL)
}

type CallbackEditable struct {
	Code    string `json:"code"`
	State   string `json:"state"`
	RealmID string `json:"realmId"` // Only set by QuickBooks
}

// ConnectionStatus holds the connection flag per platform.
type ConnectionStatus struct {
	QuickBooks bool `json:"quickbooks" example:"true"`
	Xero       bool `json:"xero" example:"false"`
}

// Callback finishes the OAuth flow: it verifies the state, exchanges the
// code at the platform and stores the returned tokens.
func (ctrl *Controller) Callback(c *gin.Context) {
	var editable CallbackEditable
	if err := httputil.BindData(c, &editable); err != nil {
		renderError(c, err)
		return
	}

	if editable.Code == "" || editable.State == "" {
		renderError(c, errMissingParameters)
		return
	}

	p, err := ctrl.parseState(editable.State)
	if err != nil {
		renderError(c, err)
		return
	}

	var token session.Token
	switch p {
	case platform.QuickBooks:
		token, err = ctrl.QBO.Exchange(c.Request.Context(), editable.Code, editable.RealmID)
	case platform.Xero:
		token, err = ctrl.Xero.Exchange(c.Request.Context(), editable.Code, editable.RealmID)
	}
	if err != nil {
		renderError(c, err)
		return
	}

	if err := session.Set(models.DB, p, token); err != nil {
		renderError(c, err)
		return
	}

	data := ConnectionStatus{
		QuickBooks: session.Connected(models.DB, platform.QuickBooks),
		Xero:       session.Connected(models.DB, platform.Xero),
	}
	c.JSON(http.StatusCreated, Response[ConnectionStatus]{Data: &data})
}

// AuthStatus reports which platforms are connected.
func (ctrl *Controller) AuthStatus(c *gin.Context) {
	data := ConnectionStatus{
		QuickBooks: session.Connected(models.DB, platform.QuickBooks),
		Xero:       session.Connected(models.DB, platform.Xero),
	}

	c.JSON(http.StatusOK, Response[ConnectionStatus]{Data: &data})
}

// Disconnect revokes the tokens upstream and clears the stored session.
// Revocation is best effort, an upstream failure must not keep the local
// session around.
func (ctrl *Controller) Disconnect(c *gin.Context) {
	p, err := platform.Parse(c.Param("platform"))
	if err != nil {
		renderError(c, err)
		return
	}

	token, err := session.Get(models.DB, p)
	if err != nil {
		renderError(c, err)
		return
	}

	switch p {
	case platform.QuickBooks:
		err = ctrl.QBO.Revoke(c.Request.Context(), token)
	case platform.Xero:
		err = ctrl.Xero.Revoke(c.Request.Context(), token)
	}
	if err != nil {
		log.Warn().Err(err).Str("platform", string(p)).Msg("token revocation failed")
	}

	if err := session.Clear(models.DB, p); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
