package oauth

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Ensure Listener implements the interface.
var _ driven.AuthorizationListener = (*Listener)(nil)

// ListenerConfig configures the browser authorization flow.
type ListenerConfig struct {
	// AuthURL is the provider's consent page.
	AuthURL string
	// RedirectURI is the loopback callback URL; its host:port is bound.
	RedirectURI string
	// Timeout bounds the wait for the callback.
	Timeout time.Duration
	// Out receives operator instructions. Defaults to io.Discard.
	Out io.Writer
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithBrowserOpener replaces the function used to open the consent page.
func WithBrowserOpener(open func(string) error) ListenerOption {
	return func(l *Listener) {
		l.openBrowser = open
	}
}

// Listener runs one authorization attempt per call to Authorize.
type Listener struct {
	cfg         ListenerConfig
	addr        string
	path        string
	openBrowser func(string) error
}

// NewListener creates a new authorization listener.
func NewListener(cfg ListenerConfig, opts ...ListenerOption) (*Listener, error) {
	u, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return nil, domain.ConfigurationError("invalid redirect URI %q: %v", cfg.RedirectURI, err)
	}
	if u.Host == "" || u.Port() == "" {
		return nil, domain.ConfigurationError("redirect URI %q must include host and port", cfg.RedirectURI)
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = domain.DefaultAuthURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultAuthTimeout
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	l := &Listener{
		cfg:         cfg,
		addr:        u.Host,
		path:        u.Path,
		openBrowser: OpenBrowser,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// AuthCodeURL builds the consent page URL for req.
func (l *Listener) AuthCodeURL(req domain.AuthorizationRequest) string {
	conf := &oauth2.Config{
		ClientID:    req.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: l.cfg.AuthURL},
		RedirectURL: req.RedirectURI,
		Scopes:      req.Scopes,
	}
	return conf.AuthCodeURL(req.State)
}

// Authorize opens the consent page and waits for the callback.
// The callback listener is stopped on every return path.
func (l *Listener) Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.AuthorizationResult, error) {
	if req.RedirectURI == "" {
		req.RedirectURI = l.cfg.RedirectURI
	}
	authURL := l.AuthCodeURL(req)

	server := NewCallbackServer(l.addr, l.path, req.State)
	if err := server.Start(); err != nil {
		return nil, err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Warn("failed to stop callback listener", "error", err)
		}
	}()

	if err := l.openBrowser(authURL); err != nil {
		logger.Warn("could not open browser", "error", err)
		_, _ = fmt.Fprintf(l.cfg.Out, "Open this URL in your browser to authorize:\n\n  %s\n\n", authURL)
	}
	_, _ = fmt.Fprintln(l.cfg.Out, "Waiting for authorization...")

	result, err := server.Wait(ctx, l.cfg.Timeout)
	if err != nil {
		return nil, err
	}
	logger.Debug("authorization code received")
	return result, nil
}
