package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotidump.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSettings_Overlay(t *testing.T) {
	path := writeSettings(t, `
redirect_uri = "http://localhost:9999/cb"
auth_timeout = "90s"
http_timeout = "5s"
requests_per_second = 4
dump_dir = "backup"
log_format = "json"
`)

	s, err := LoadSettings(path, domain.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/cb", s.RedirectURI)
	assert.Equal(t, 90*time.Second, s.AuthTimeout)
	assert.Equal(t, 5*time.Second, s.HTTPTimeout)
	assert.Equal(t, 4.0, s.RequestsPerSecond)
	assert.Equal(t, "backup", s.DumpDir)
	assert.Equal(t, "json", s.LogFormat)
	// Untouched fields keep their defaults
	assert.Equal(t, domain.DefaultTokenURL, s.TokenURL)
	assert.Equal(t, domain.DefaultAPIBaseURL, s.APIBaseURL)
}

func TestLoadSettings_FloatRate(t *testing.T) {
	path := writeSettings(t, `requests_per_second = 2.5`)

	s, err := LoadSettings(path, domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 2.5, s.RequestsPerSecond)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: `redirect_uri = `},
		{name: "unknown key", content: `client_secret = "nope"`},
		{name: "bad duration", content: `auth_timeout = "soon"`},
		{name: "bad rate", content: `requests_per_second = "fast"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := domain.DefaultSettings()
			s, err := LoadSettings(writeSettings(t, tt.content), base)

			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Equal(t, base, s)
		})
	}
}

func TestLoadSettings_ExplicitPathMissing(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"), domain.DefaultSettings())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadSettings_DefaultPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	base := domain.DefaultSettings()
	s, err := LoadSettings("", base)
	require.NoError(t, err)
	assert.Equal(t, base, s)
}

func TestLoadSettings_DefaultPathPresent(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(`dump_dir = "here"`), 0o600))

	s, err := LoadSettings("", domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "here", s.DumpDir)
}
