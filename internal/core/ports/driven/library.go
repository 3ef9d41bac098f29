package driven

import (
	"context"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// LibraryAPI is the user's library as exposed by the provider's Web API.
// Reads are fully materialized; writes are chunked and stop at the first failure.
type LibraryAPI interface {
	// CurrentUserID returns the id of the token's owner.
	CurrentUserID(ctx context.Context) (string, error)

	// SavedTracks returns every saved track in provider order.
	SavedTracks(ctx context.Context) ([]domain.TrackItem, error)

	// Playlists returns every playlist the user owns or follows.
	Playlists(ctx context.Context) ([]domain.Playlist, error)

	// PlaylistItems returns every item of a playlist in playlist order.
	PlaylistItems(ctx context.Context, playlistID string) ([]domain.TrackItem, error)

	// SaveTracks adds track ids to the library. Returns how many were applied.
	SaveTracks(ctx context.Context, ids []string) (int, error)

	// RemoveSavedTracks removes track ids from the library. Returns how many were applied.
	RemoveSavedTracks(ctx context.Context, ids []string) (int, error)

	// CreatePlaylist creates a private playlist and returns its id.
	CreatePlaylist(ctx context.Context, userID, name string) (string, error)

	// AddPlaylistTracks appends track ids to a playlist. Returns how many were applied.
	AddPlaylistTracks(ctx context.Context, playlistID string, ids []string) (int, error)

	// UnfollowPlaylist removes a playlist from the user's library.
	UnfollowPlaylist(ctx context.Context, playlistID string) error
}
