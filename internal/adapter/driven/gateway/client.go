// Package gateway implements the IdentityGateway port against a hosted
// identity-and-database service exposing GoTrue-style auth endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdentityGateway = (*Client)(nil)

// Client implements the driven.IdentityGateway port. All requests carry the
// public API key; user-scoped requests additionally carry the session's
// bearer token. Real authorization enforcement stays server-side in the
// gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client whose transport is wrapped with an
// in-memory RFC 7234 response cache, mirroring how cacheable GETs against the
// hosted service are kept off the wire.
func NewClient(baseURL, apiKey string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: cacheTransport,
			Timeout:   10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server as the gateway.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SignInURL returns the gateway's OAuth authorize URL for the given provider.
// The gateway runs the provider consent flow and redirects the browser back
// to redirectTo with a ?code= parameter.
func (c *Client) SignInURL(provider, redirectTo string) string {
	params := url.Values{
		"provider":    {provider},
		"redirect_to": {redirectTo},
	}
	return c.baseURL + "/auth/v1/authorize?" + params.Encode()
}

// ExchangeCode exchanges a single-use authorization code for a session.
// No retries: a code already consumed by the gateway can never succeed again.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.Session, error) {
	data := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=authorization_code"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("code exchange rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("code exchange failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("code exchange returned no access token")
	}

	token := &oauth2.Token{
		AccessToken:  tokenResp.AccessToken,
		TokenType:    tokenResp.TokenType,
		RefreshToken: tokenResp.RefreshToken,
	}

	return &model.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type(),
	}, nil
}

// CurrentUser resolves the user owning the given access token.
// A 401 from the gateway maps to driven.ErrUnauthenticated.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, driven.ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user lookup failed with status %d", resp.StatusCode)
	}

	var userResp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	if userResp.ID == "" {
		return nil, driven.ErrUnauthenticated
	}

	return &model.User{ID: userResp.ID, Email: userResp.Email}, nil
}
