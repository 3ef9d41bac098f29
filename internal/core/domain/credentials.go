package domain

import "time"

// Credentials holds the OAuth client identity for a run.
// It is read once at startup and never changes afterwards.
type Credentials struct {
	// ClientID is the registered application's client identifier.
	ClientID string
	// ClientSecret is the registered application's client secret.
	ClientSecret string
	// RefreshToken is an optional token captured from an earlier run.
	// When present, the browser flow is skipped entirely.
	RefreshToken string
}

// HasRefreshToken returns true if a refresh token is available.
func (c Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Validate checks that the client identity is complete.
// Both grant types authenticate the client, so the id and secret are always required.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return ConfigurationError("SPOTIFY_CLIENT_ID is not set")
	}
	if c.ClientSecret == "" {
		return ConfigurationError("SPOTIFY_CLIENT_SECRET is not set")
	}
	return nil
}

// TokenSet is the result of a token exchange.
type TokenSet struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is returned by the code exchange and sometimes rotated on refresh.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Scope is the space separated list of granted scopes.
	Scope string `json:"scope,omitempty"`
	// Expiry is when the access token expires. Zero if the provider did not say.
	Expiry time.Time `json:"-"`
}
