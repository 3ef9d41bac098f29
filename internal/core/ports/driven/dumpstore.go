package driven

import (
	"context"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// PlaylistDump is a playlist read back from a dump.
type PlaylistDump struct {
	// Name is the playlist name recorded by the dump (the file stem for CSV).
	Name string
	// Rows are the dumped tracks in order.
	Rows []domain.TrackRow
}

// DumpStore persists exported libraries and reads them back for import.
type DumpStore interface {
	// WriteSavedTracks replaces the saved-tracks dump. Returns its location.
	WriteSavedTracks(ctx context.Context, rows []domain.TrackRow) (string, error)

	// WritePlaylist writes one playlist dump. Returns its location.
	WritePlaylist(ctx context.Context, name string, rows []domain.TrackRow) (string, error)

	// ReservePlaylist claims the location a playlist dump would be written to
	// without writing it, so later playlists with the same name do not take it.
	// Used for playlists a resumed export skips. Returns the location.
	ReservePlaylist(ctx context.Context, name string) (string, error)

	// ReadSavedTracks reads the saved-tracks dump.
	// Returns domain.ErrNotFound if there is none.
	ReadSavedTracks(ctx context.Context) ([]domain.TrackRow, error)

	// ReadPlaylists reads every playlist dump, ordered by name.
	ReadPlaylists(ctx context.Context) ([]PlaylistDump, error)
}
