package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// maxErrorBody caps how much of an unstructured error body is kept.
const maxErrorBody = 512

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the Web API root. Defaults to domain.DefaultAPIBaseURL.
	BaseURL string
	// Timeout bounds each request. Defaults to domain.DefaultHTTPTimeout.
	Timeout time.Duration
	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64
}

// Client is a bearer-authenticated Web API client.
type Client struct {
	http        *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a client bound to tokens for its whole lifetime.
// An *http.Client stored in ctx under oauth2.HTTPClient is used as the base transport.
func NewClient(ctx context.Context, tokens *domain.TokenSet, cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultHTTPTimeout
	}

	ts := oauth2.StaticTokenSource(OAuth2Token(tokens))
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = cfg.Timeout

	return &Client{
		http:        tc,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// OAuth2Token converts a token set into the form the oauth2 transport uses.
func OAuth2Token(t *domain.TokenSet) *oauth2.Token {
	if t == nil {
		return &oauth2.Token{}
	}
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    tokenType,
		Expiry:       t.Expiry,
	}
}

// URL resolves an API path such as "/me/tracks" against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Request is a single Web API call.
type Request struct {
	Method string
	URL    string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Do sends req and returns the response body.
// Non-2xx responses become a *domain.APIError of the given kind; requests that
// never produce a response wrap domain.ErrTransport.
func (c *Client) Do(ctx context.Context, req Request, kind error) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("api request", "method", req.Method, "url", req.URL)
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			URL:        req.URL,
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.RetryAfter = RetryAfter(resp)
		}
		return nil, apiErr
	}
	return data, nil
}

// errorMessage extracts the Web API error message, falling back to a
// snippet of the raw body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
		if msg := gjson.GetBytes(body, "error_description"); msg.Exists() {
			return msg.String()
		}
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
