// Package qbo is the QuickBooks Online connector. It exchanges OAuth codes,
// pulls entity collections into the mirror and pushes created or changed
// records back to the platform.
package qbo

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

// AuthorizeURL returns the URL the browser is redirected to for consent.
func (c *Client) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", c.ClientID)
	query.Set("response_type", "code")
	query.Set("scope", "com.intuit.quickbooks.accounting openid")
	query.Set("redirect_uri", c.RedirectURL)
	query.Set("state", state)

	return fmt.Sprintf("%s?%s", c.AuthURL, query.Encode())
}

// Exchange trades the authorization code for tokens. The realm ID comes
// from the callback query, not from the token response, and is carried
// into the stored token.
func (c *Client) Exchange(ctx context.Context, code, realmID string) (session.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return session.Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

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
		RealmID:      realmID,
	}, nil
}

// Revoke invalidates the refresh token upstream.
func (c *Client) Revoke(ctx context.Context, token session.Token) error {
	body, _ := json.Marshal(map[string]string{"token": token.RefreshToken})

	revokeURL := strings.Replace(c.TokenURL, "/bearer", "/revoke", 1)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

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

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
}

// query runs a QuickBooks query for one entity type and decodes the
// QueryResponse wrapper into the target.
func (c *Client) query(ctx context.Context, token session.Token, entity string, target any) error {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("select * from %s", entity))

	reqURL := fmt.Sprintf("%s/v3/company/%s/query?%s", c.BaseURL, token.RealmID, query.Encode())
	return c.do(ctx, http.MethodGet, reqURL, token, nil, target)
}

// post sends an entity payload to a company endpoint and decodes the
// response into the target, which may be nil.
func (c *Client) post(ctx context.Context, token session.Token, path string, payload, target any) error {
	reqURL := fmt.Sprintf("%s/v3/company/%s/%s", c.BaseURL, token.RealmID, path)
	return c.do(ctx, http.MethodPost, reqURL, token, payload, target)
}

func (c *Client) do(ctx context.Context, method, reqURL string, token session.Token, payload, target any) error {
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

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
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
