// Package xero is the Xero connector. Xero has no realm, the tenant is
// implied by the token, and deletion maps to archiving for contacts and
// to a status change for draft invoices.
package xero

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/acctsync/backend/internal/config"
	"github.com/acctsync/backend/internal/platform"
	"github.com/acctsync/backend/internal/session"
)

type Client struct {
	BaseURL      string
	AuthURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURL  string

	HTTPClient *http.Client
}

func New(cfg config.PlatformConfig) *Client {
	return &Client{
		BaseURL:      cfg.BaseURL,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", c.ClientID)
	query.Set("response_type", "code")
	query.Set("scope", "openid profile email accounting.transactions accounting.contacts accounting.settings")
	query.Set("redirect_uri", c.RedirectURL)
	query.Set("state", state)

	return fmt.Sprintf("%s?%s", c.AuthURL, query.Encode())
}

func (c *Client) Exchange(ctx context.Context, code, _ string) (session.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return session.Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.ClientID+":"+c.ClientSecret)))

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return session.Token{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return session.Token{}, platform.NewAPIError(res)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return session.Token{}, err
	}

	return session.Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		IDToken:      body.IDToken,
	}, nil
}

// Revoke invalidates the refresh token at the identity service.
func (c *Client) Revoke(ctx context.Context, token session.Token) error {
	form := url.Values{}
	form.Set("token", token.RefreshToken)

	revokeURL := strings.Replace(c.TokenURL, "/token", "/revocation", 1)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.ClientID+":"+c.ClientSecret)))

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return platform.NewAPIError(res)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, token session.Token, payload, target any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/api.xro/2.0/%s", c.BaseURL, path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return platform.NewAPIError(res)
	}

	if target == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(target)
}
