package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Validate())
	assert.Equal(t, DefaultRedirectURI, s.RedirectURI)
	assert.Equal(t, 120*time.Second, s.AuthTimeout)
	assert.Equal(t, "dump", s.DumpDir)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{name: "https redirect", mutate: func(s *Settings) { s.RedirectURI = "https://127.0.0.1:8888/callback" }},
		{name: "redirect without port", mutate: func(s *Settings) { s.RedirectURI = "http://127.0.0.1/callback" }},
		{name: "remote redirect", mutate: func(s *Settings) { s.RedirectURI = "http://example.com:8888/callback" }},
		{name: "unparsable redirect", mutate: func(s *Settings) { s.RedirectURI = "http://[::1" }},
		{name: "zero auth timeout", mutate: func(s *Settings) { s.AuthTimeout = 0 }},
		{name: "zero http timeout", mutate: func(s *Settings) { s.HTTPTimeout = 0 }},
		{name: "negative http timeout", mutate: func(s *Settings) { s.HTTPTimeout = -time.Second }},
		{name: "negative rate", mutate: func(s *Settings) { s.RequestsPerSecond = -1 }},
		{name: "empty dump dir", mutate: func(s *Settings) { s.DumpDir = "" }},
		{name: "unknown log format", mutate: func(s *Settings) { s.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrConfiguration)
		})
	}
}

func TestSettings_Validate_LoopbackHosts(t *testing.T) {
	for _, uri := range []string{
		"http://127.0.0.1:8888/callback",
		"http://localhost:9000/cb",
		"http://[::1]:8888/callback",
	} {
		t.Run(uri, func(t *testing.T) {
			s := DefaultSettings()
			s.RedirectURI = uri
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSettings_Validate_ZeroRateAllowed(t *testing.T) {
	s := DefaultSettings()
	s.RequestsPerSecond = 0
	assert.NoError(t, s.Validate(), "zero disables throttling")
}
