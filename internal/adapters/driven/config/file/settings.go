package file

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// DefaultFileName is read from the working directory when no path is given.
const DefaultFileName = "spotidump.toml"

// settingsFile mirrors the TOML layout. Durations are strings such as "90s".
// Secrets are deliberately absent; they only come from the environment.
type settingsFile struct {
	AuthURL           string `toml:"auth_url"`
	TokenURL          string `toml:"token_url"`
	APIBaseURL        string `toml:"api_base_url"`
	RedirectURI       string `toml:"redirect_uri"`
	AuthTimeout       string `toml:"auth_timeout"`
	HTTPTimeout       string `toml:"http_timeout"`
	RequestsPerSecond any    `toml:"requests_per_second"`
	DumpDir           string `toml:"dump_dir"`
	LogFormat         string `toml:"log_format"`
}

// LoadSettings overlays the TOML file at path onto base.
// With an empty path, DefaultFileName is used if it exists and base is
// returned unchanged otherwise. An explicit path that does not exist is an error.
func LoadSettings(path string, base domain.Settings) (domain.Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return base, nil
		}
		return base, domain.ConfigurationError("read settings file %s: %v", path, err)
	}

	var f settingsFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return base, domain.ConfigurationError("parse settings file %s: %v", path, err)
	}

	settings, err := f.apply(base)
	if err != nil {
		return base, domain.ConfigurationError("settings file %s: %v", path, err)
	}
	logger.Debug("settings file loaded", "path", path)
	return settings, nil
}

// apply overlays the non-empty fields onto s.
func (f settingsFile) apply(s domain.Settings) (domain.Settings, error) {
	overlay(&s.AuthURL, f.AuthURL)
	overlay(&s.TokenURL, f.TokenURL)
	overlay(&s.APIBaseURL, f.APIBaseURL)
	overlay(&s.RedirectURI, f.RedirectURI)
	overlay(&s.DumpDir, f.DumpDir)
	overlay(&s.LogFormat, f.LogFormat)

	if f.AuthTimeout != "" {
		d, err := time.ParseDuration(f.AuthTimeout)
		if err != nil {
			return s, errors.New("auth_timeout: " + err.Error())
		}
		s.AuthTimeout = d
	}
	if f.HTTPTimeout != "" {
		d, err := time.ParseDuration(f.HTTPTimeout)
		if err != nil {
			return s, errors.New("http_timeout: " + err.Error())
		}
		s.HTTPTimeout = d
	}

	// TOML integers decode as int64
	switch v := f.RequestsPerSecond.(type) {
	case nil:
	case int64:
		s.RequestsPerSecond = float64(v)
	case float64:
		s.RequestsPerSecond = v
	default:
		return s, errors.New("requests_per_second must be a number")
	}
	return s, nil
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
