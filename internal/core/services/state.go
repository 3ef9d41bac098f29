package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// stateLength is the number of random bytes in a state parameter.
const stateLength = 32

// GenerateState creates a random state parameter for CSRF protection.
// The result is base64url encoded without padding, so it can be placed in a
// query string as is.
func GenerateState() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
