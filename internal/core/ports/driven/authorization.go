package driven

import (
	"context"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// AuthorizationListener obtains operator consent and relays back the
// authorization code from the provider's redirect.
type AuthorizationListener interface {
	// Authorize opens the consent page and blocks until exactly one callback
	// arrives, the configured timeout elapses, or ctx is cancelled.
	// The returned result's state always equals req.State.
	Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.AuthorizationResult, error)
}

// TokenExchanger performs the server-to-server token grants.
type TokenExchanger interface {
	// ExchangeCode converts an authorization code into tokens.
	ExchangeCode(ctx context.Context, code, redirectURI, clientID, clientSecret string) (*domain.TokenSet, error)

	// ExchangeRefreshToken converts a refresh token into a fresh access token.
	ExchangeRefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*domain.TokenSet, error)
}
