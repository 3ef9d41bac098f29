// Package oauth provides OAuth token exchange against the provider's token endpoint.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// maxErrorBody caps how much of an unstructured error body is kept.
const maxErrorBody = 512

// tokenResponse holds the response from a token exchange.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
}

// Exchanger performs the authorization code and refresh token grants.
// Each call is a single POST; nothing is retried.
type Exchanger struct {
	tokenURL string
	client   *http.Client
}

// NewExchanger creates a new token exchanger.
// A nil client gets a default one with the default HTTP timeout.
func NewExchanger(tokenURL string, client *http.Client) *Exchanger {
	if tokenURL == "" {
		tokenURL = domain.DefaultTokenURL
	}
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultHTTPTimeout}
	}
	return &Exchanger{
		tokenURL: tokenURL,
		client:   client,
	}
}

// ExchangeCode exchanges an authorization code for tokens.
func (e *Exchanger) ExchangeCode(
	ctx context.Context,
	code, redirectURI, clientID, clientSecret string,
) (*domain.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	return e.post(ctx, data, clientID, clientSecret)
}

// ExchangeRefreshToken exchanges a refresh token for a fresh access token.
// Providers that do not rotate refresh tokens omit it from the response;
// the original refresh token is carried over in that case.
func (e *Exchanger) ExchangeRefreshToken(
	ctx context.Context,
	refreshToken, clientID, clientSecret string,
) (*domain.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	tokens, err := e.post(ctx, data, clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func (e *Exchanger) post(ctx context.Context, data url.Values, clientID, clientSecret string) (*domain.TokenSet, error) {
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	logger.Debug("token request", "grant_type", data.Get("grant_type"), "url", e.tokenURL)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read token response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.APIError{
			Kind:       domain.ErrTokenExchangeHTTP,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			URL:        e.tokenURL,
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenDecode, err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: response has no access_token", domain.ErrTokenDecode)
	}

	tokens := &domain.TokenSet{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
		Scope:        tokenResp.Scope,
	}
	// Calculate expiry
	if tokenResp.ExpiresIn > 0 {
		tokens.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return tokens, nil
}

// errorMessage extracts the provider's error fields, falling back to a
// snippet of the raw body.
func errorMessage(body []byte) string {
	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if errResp.Description != "" {
			return errResp.Error + " - " + errResp.Description
		}
		return errResp.Error
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

// truncate cuts s to at most n bytes on a rune boundary, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
