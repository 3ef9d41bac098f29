// Package env reads credentials and setting overrides from the process
// environment, after loading an optional .env file.
package env

import (
	"os"
	"runtime"
	"time"

	goenv "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// variables lists every recognised variable. There are no envDefault tags:
// fields are pre-filled from the lower layers and only set variables
// override them.
type variables struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	RefreshToken string `env:"SPOTIFY_REFRESH_TOKEN"`

	AuthURL           string        `env:"SPOTIDUMP_AUTH_URL"`
	TokenURL          string        `env:"SPOTIDUMP_TOKEN_URL"`
	APIBaseURL        string        `env:"SPOTIDUMP_API_BASE_URL"`
	RedirectURI       string        `env:"SPOTIDUMP_REDIRECT_URI"`
	AuthTimeout       time.Duration `env:"SPOTIDUMP_AUTH_TIMEOUT"`
	HTTPTimeout       time.Duration `env:"SPOTIDUMP_HTTP_TIMEOUT"`
	RequestsPerSecond float64       `env:"SPOTIDUMP_REQUESTS_PER_SECOND"`
	DumpDir           string        `env:"SPOTIDUMP_DUMP_DIR"`
	LogFormat         string        `env:"SPOTIDUMP_LOG_FORMAT"`
}

// LoadFile reads the dotenv file at path if it exists, then overlays the
// environment onto settings. Variables already set in the process win over
// the file. A missing file is not an error.
func LoadFile(path string, settings domain.Settings) (domain.Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err == nil {
			logger.Debug("loaded dotenv file", "path", path)
			warnInsecureEnvFile(path)
		}
	}

	v := variables{
		AuthURL:           settings.AuthURL,
		TokenURL:          settings.TokenURL,
		APIBaseURL:        settings.APIBaseURL,
		RedirectURI:       settings.RedirectURI,
		AuthTimeout:       settings.AuthTimeout,
		HTTPTimeout:       settings.HTTPTimeout,
		RequestsPerSecond: settings.RequestsPerSecond,
		DumpDir:           settings.DumpDir,
		LogFormat:         settings.LogFormat,
	}
	if err := goenv.Parse(&v); err != nil {
		return domain.Config{}, domain.ConfigurationError("parse environment: %v", err)
	}

	return domain.Config{
		Credentials: domain.Credentials{
			ClientID:     v.ClientID,
			ClientSecret: v.ClientSecret,
			RefreshToken: v.RefreshToken,
		},
		Settings: domain.Settings{
			AuthURL:           v.AuthURL,
			TokenURL:          v.TokenURL,
			APIBaseURL:        v.APIBaseURL,
			RedirectURI:       v.RedirectURI,
			AuthTimeout:       v.AuthTimeout,
			HTTPTimeout:       v.HTTPTimeout,
			RequestsPerSecond: v.RequestsPerSecond,
			DumpDir:           v.DumpDir,
			LogFormat:         v.LogFormat,
		},
	}, nil
}

// warnInsecureEnvFile flags a dotenv file readable by group or others,
// since it usually holds the client secret.
func warnInsecureEnvFile(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		logger.Warn("dotenv file has insecure permissions, recommended 0600",
			"path", path, "mode", mode.String())
	}
}
