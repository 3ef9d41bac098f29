package domain

import (
	"fmt"
	"strings"
)

// Operation identifies the bulk operation a run performs.
// Each operation needs a different set of OAuth scopes.
type Operation string

// Available operations.
const (
	// OperationExport reads the library and writes it to CSV.
	OperationExport Operation = "export"

	// OperationImport writes CSV dumps back into the library.
	OperationImport Operation = "import"

	// OperationPurge removes saved tracks and playlists from the library.
	OperationPurge Operation = "purge"
)

// Operations returns every supported operation.
func Operations() []Operation {
	return []Operation{OperationExport, OperationImport, OperationPurge}
}

// ParseOperation converts a string into an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !op.IsValid() {
		return "", fmt.Errorf("unknown operation %q (want export, import or purge)", s)
	}
	return op, nil
}

// IsValid returns true if the operation is recognised.
func (o Operation) IsValid() bool {
	switch o {
	case OperationExport, OperationImport, OperationPurge:
		return true
	default:
		return false
	}
}

// Scopes returns the OAuth scopes the operation needs.
func (o Operation) Scopes() []string {
	switch o {
	case OperationExport:
		return []string{"user-library-read", "playlist-read-private", "playlist-read-collaborative"}
	case OperationImport:
		return []string{"user-library-modify", "playlist-modify-public", "playlist-modify-private"}
	case OperationPurge:
		return []string{
			"user-library-read",
			"user-library-modify",
			"playlist-read-private",
			"playlist-modify-public",
			"playlist-modify-private",
		}
	default:
		return nil
	}
}

// String returns the string representation.
func (o Operation) String() string {
	return string(o)
}

// AuthorizationRequest describes a single browser authorization attempt.
type AuthorizationRequest struct {
	// ClientID is sent to the consent page.
	ClientID string
	// State is the single-use CSRF correlation token.
	State string
	// Scopes are the permissions requested for the operation.
	Scopes []string
	// RedirectURI is the loopback callback URL.
	RedirectURI string
}

// AuthorizationResult is extracted from the callback query string.
type AuthorizationResult struct {
	Code  string
	State string
}
