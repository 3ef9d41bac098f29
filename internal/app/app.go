// Package app composes configuration, adapters and services into the
// runtime the CLI executes against.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	envconfig "github.com/custodia-labs/spotidump/internal/adapters/driven/config/env"
	fileconfig "github.com/custodia-labs/spotidump/internal/adapters/driven/config/file"
	oauthtoken "github.com/custodia-labs/spotidump/internal/adapters/driven/oauth"
	csvstore "github.com/custodia-labs/spotidump/internal/adapters/driven/storage/csv"
	"github.com/custodia-labs/spotidump/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/spotidump/internal/adapters/driven/storage/sqlite"
	oauthcallback "github.com/custodia-labs/spotidump/internal/adapters/driving/oauth"
	"github.com/custodia-labs/spotidump/internal/connectors/spotify"
	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
	"github.com/custodia-labs/spotidump/internal/core/services"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Options select where configuration comes from.
type Options struct {
	// ConfigPath is the TOML settings file. Empty means fileconfig.DefaultFileName when present.
	ConfigPath string
	// DotEnvPath is the dotenv file. Empty means envconfig.DotEnvFile.
	DotEnvPath string
	// DumpDir overrides the configured dump directory when set.
	DumpDir string
	// Out receives operator-facing authorization messages. Defaults to stdout.
	Out io.Writer
	// ListenerOptions are passed to the callback listener.
	ListenerOptions []oauthcallback.ListenerOption
}

// App is the composed application. It is built once per process.
type App struct {
	config *domain.Config
	auth   *services.AuthService
}

// New loads configuration with precedence defaults < settings file <
// environment < flags, then wires the authentication stack.
func New(opts Options) (*App, error) {
	settings, err := fileconfig.LoadSettings(opts.ConfigPath, domain.DefaultSettings())
	if err != nil {
		return nil, err
	}

	dotenv := opts.DotEnvPath
	if dotenv == "" {
		dotenv = envconfig.DotEnvFile
	}
	cfg, err := envconfig.LoadFile(dotenv, settings)
	if err != nil {
		return nil, err
	}
	if opts.DumpDir != "" {
		cfg.Settings.DumpDir = opts.DumpDir
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	logger.SetFormat(cfg.Settings.LogFormat)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	listener, err := oauthcallback.NewListener(oauthcallback.ListenerConfig{
		AuthURL:     cfg.Settings.AuthURL,
		RedirectURI: cfg.Settings.RedirectURI,
		Timeout:     cfg.Settings.AuthTimeout,
		Out:         out,
	}, opts.ListenerOptions...)
	if err != nil {
		return nil, err
	}
	exchanger := oauthtoken.NewExchanger(cfg.Settings.TokenURL, &http.Client{Timeout: cfg.Settings.HTTPTimeout})

	logger.Debug("configuration loaded",
		"dump_dir", cfg.Settings.DumpDir,
		"redirect_uri", cfg.Settings.RedirectURI,
		"refresh_token", cfg.Credentials.HasRefreshToken())

	return &App{
		config: &cfg,
		auth:   services.NewAuthService(cfg.Credentials, cfg.Settings.RedirectURI, listener, exchanger),
	}, nil
}

// Config returns the process configuration.
func (a *App) Config() *domain.Config {
	return a.config
}

// Authenticator returns the token service.
func (a *App) Authenticator() driving.Authenticator {
	return a.auth
}

// Library binds a library service to tokens. With journal set, progress
// is persisted in the dump directory and the returned closer releases it.
// Otherwise units are tracked in memory for this run only.
func (a *App) Library(ctx context.Context, tokens *domain.TokenSet, journal bool) (driving.LibraryService, io.Closer, error) {
	s := a.config.Settings

	client := spotify.NewClient(ctx, tokens, spotify.ClientConfig{
		BaseURL:           s.APIBaseURL,
		Timeout:           s.HTTPTimeout,
		RequestsPerSecond: s.RequestsPerSecond,
	})
	dump := csvstore.NewStore(s.DumpDir)

	var (
		j      driven.Journal = memory.NewJournal()
		closer io.Closer      = nopCloser{}
	)
	if journal {
		store, err := sqlite.NewStore(s.DumpDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		logger.Debug("journal opened", "path", store.Path())
		j, closer = store.Journal(), store
	}

	return services.NewLibraryService(spotify.NewLibrary(client), dump, j), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
