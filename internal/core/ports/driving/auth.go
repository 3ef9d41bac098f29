package driving

import (
	"context"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// Authenticator produces a usable access token for an operation.
type Authenticator interface {
	// Authenticate exchanges the configured refresh token when there is one,
	// and otherwise runs the browser authorization flow with the scopes the
	// operation needs. Nothing is retried.
	Authenticate(ctx context.Context, op domain.Operation) (*domain.TokenSet, error)
}
