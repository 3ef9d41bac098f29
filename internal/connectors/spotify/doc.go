// Package spotify implements the library API against the Spotify Web API.
//
// # Architecture
//
// The package is built from three pieces:
//
//   - Client: bearer-authenticated HTTP with proactive throttling
//   - FetchAll: the generic cursor walker used by every collection read
//   - ApplyChunks: the chunked mutator used by every bulk write
//
// Library composes them into the endpoints the export, import and purge
// operations need and implements [driven.LibraryAPI].
//
// # Pagination
//
// Collection responses carry an "items" array and a "next" URL. FetchAll
// follows "next" until it is null or empty and returns the concatenated
// items in page order. There is no page cap. A failure on any page aborts
// the walk and no partial result is returned.
//
// # Bulk Writes
//
// The Web API limits how many ids a single write may carry: 50 for library
// tracks and 100 for playlist items. ApplyChunks splits the input in order
// and issues one request per chunk, sequentially. The first failing chunk
// stops the remaining ones; chunks already applied are not rolled back.
//
// # Rate Limiting
//
// A token bucket limits outgoing requests (10 per second by default).
// Throttled (429) responses are not retried; the Retry-After hint is
// reported on the returned [domain.APIError].
//
// # Authentication
//
// The client is bound to a single access token for its lifetime. Tokens are
// not refreshed mid-run; an expired token surfaces as a 401 error.
package spotify
