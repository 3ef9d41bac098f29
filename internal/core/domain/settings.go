package domain

import (
	"net"
	"net/url"
	"time"
)

// Provider endpoints.
const (
	DefaultAuthURL    = "https://accounts.spotify.com/authorize"
	DefaultTokenURL   = "https://accounts.spotify.com/api/token"
	DefaultAPIBaseURL = "https://api.spotify.com/v1"
)

// Defaults for non-secret settings.
const (
	DefaultRedirectURI       = "http://127.0.0.1:8888/callback"
	DefaultAuthTimeout       = 120 * time.Second
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultDumpDir           = "dump"
	DefaultRequestsPerSecond = 10.0
	DefaultLogFormat         = "text"
)

// Settings holds non-secret runtime configuration.
type Settings struct {
	// AuthURL is the provider's consent page.
	AuthURL string
	// TokenURL is the provider's token endpoint.
	TokenURL string
	// APIBaseURL is the root of the Web API.
	APIBaseURL string
	// RedirectURI is the loopback callback registered with the provider.
	RedirectURI string
	// AuthTimeout bounds the wait for the browser callback.
	AuthTimeout time.Duration
	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration
	// RequestsPerSecond throttles Web API calls. Zero disables throttling.
	RequestsPerSecond float64
	// DumpDir is where CSV dumps are written and read.
	DumpDir string
	// LogFormat selects "text" or "json" log output.
	LogFormat string
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		AuthURL:           DefaultAuthURL,
		TokenURL:          DefaultTokenURL,
		APIBaseURL:        DefaultAPIBaseURL,
		RedirectURI:       DefaultRedirectURI,
		AuthTimeout:       DefaultAuthTimeout,
		HTTPTimeout:       DefaultHTTPTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		DumpDir:           DefaultDumpDir,
		LogFormat:         DefaultLogFormat,
	}
}

// Validate checks the settings for values that cannot work.
func (s Settings) Validate() error {
	u, err := url.Parse(s.RedirectURI)
	if err != nil {
		return ConfigurationError("invalid redirect URI %q: %v", s.RedirectURI, err)
	}
	if u.Scheme != "http" || u.Port() == "" {
		return ConfigurationError("redirect URI %q must be http with an explicit port", s.RedirectURI)
	}
	if !isLoopback(u.Hostname()) {
		return ConfigurationError("redirect URI host %q is not a loopback address", u.Hostname())
	}
	if s.AuthTimeout <= 0 {
		return ConfigurationError("auth timeout must be positive, got %s", s.AuthTimeout)
	}
	if s.HTTPTimeout <= 0 {
		return ConfigurationError("HTTP timeout must be positive, got %s", s.HTTPTimeout)
	}
	if s.RequestsPerSecond < 0 {
		return ConfigurationError("requests per second must not be negative, got %v", s.RequestsPerSecond)
	}
	if s.DumpDir == "" {
		return ConfigurationError("dump directory is empty")
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return ConfigurationError("log format must be text or json, got %q", s.LogFormat)
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Config is the process-wide configuration, built once at startup and
// passed by reference to whatever needs it.
type Config struct {
	Credentials Credentials
	Settings    Settings
}
