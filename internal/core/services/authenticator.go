package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.Authenticator = (*AuthService)(nil)

// AuthService decides between the refresh path and the interactive browser
// path and drives whichever one applies.
type AuthService struct {
	creds       domain.Credentials
	redirectURI string
	listener    driven.AuthorizationListener
	exchanger   driven.TokenExchanger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	creds domain.Credentials,
	redirectURI string,
	listener driven.AuthorizationListener,
	exchanger driven.TokenExchanger,
) *AuthService {
	return &AuthService{
		creds:       creds,
		redirectURI: redirectURI,
		listener:    listener,
		exchanger:   exchanger,
	}
}

// Authenticate returns an access token usable for op.
func (s *AuthService) Authenticate(ctx context.Context, op domain.Operation) (*domain.TokenSet, error) {
	if !op.IsValid() {
		return nil, fmt.Errorf("authenticate: unknown operation %q", op)
	}
	if err := s.creds.Validate(); err != nil {
		return nil, err
	}
	if s.exchanger == nil {
		return nil, domain.ConfigurationError("no token exchanger configured")
	}

	if s.creds.HasRefreshToken() {
		logger.Debug("using refresh token", "operation", op.String())
		return s.refresh(ctx)
	}
	return s.interactive(ctx, op)
}

func (s *AuthService) refresh(ctx context.Context) (*domain.TokenSet, error) {
	tokens, err := s.exchanger.ExchangeRefreshToken(ctx, s.creds.RefreshToken, s.creds.ClientID, s.creds.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return tokens, nil
}

func (s *AuthService) interactive(ctx context.Context, op domain.Operation) (*domain.TokenSet, error) {
	if s.listener == nil {
		return nil, domain.ConfigurationError("no authorization listener configured")
	}

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	req := domain.AuthorizationRequest{
		ClientID:    s.creds.ClientID,
		State:       state,
		Scopes:      op.Scopes(),
		RedirectURI: s.redirectURI,
	}
	logger.Debug("starting browser authorization", "operation", op.String(), "redirect_uri", s.redirectURI)

	result, err := s.listener.Authorize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if result == nil || result.Code == "" {
		return nil, fmt.Errorf("authorize: %w", domain.ErrMalformedCallback)
	}
	// Checked again here so a mismatched code is never exchanged.
	if subtle.ConstantTimeCompare([]byte(result.State), []byte(state)) != 1 {
		return nil, fmt.Errorf("authorize: %w", domain.ErrStateMismatch)
	}

	tokens, err := s.exchanger.ExchangeCode(ctx, result.Code, s.redirectURI, s.creds.ClientID, s.creds.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tokens, nil
}
