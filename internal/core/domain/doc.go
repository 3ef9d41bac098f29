// Package domain defines the core entities for spotidump.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credentials, TokenSet: the OAuth client identity and its tokens
//   - Operation, AuthorizationRequest, AuthorizationResult: one authorization attempt
//   - TrackItem, Playlist, TrackRow: library records as fetched and as dumped
//   - Settings, Config: the run configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
