package driving

import "context"

// RunOptions controls a bulk operation.
type RunOptions struct {
	// Force applies changes. Without it the operation only reports counts.
	Force bool
	// Resume skips units a previous forced run recorded as finished.
	Resume bool
}

// LibraryService runs the bulk operations against an authenticated library.
type LibraryService interface {
	// Export dumps saved tracks and playlists.
	Export(ctx context.Context, opts RunOptions) (*ExportSummary, error)

	// Import restores saved tracks and playlists from the dump.
	Import(ctx context.Context, opts RunOptions) (*ImportSummary, error)

	// Purge removes saved tracks and unfollows playlists.
	Purge(ctx context.Context, opts RunOptions) (*PurgeSummary, error)
}

// PlaylistSummary reports what happened to one playlist.
type PlaylistSummary struct {
	// Name is the playlist name.
	Name string
	// Tracks is the number of tracks written, added, or that would be.
	Tracks int
	// Skipped is the number of items without a usable track id.
	Skipped int
	// Location is where the dump was written, if any. For a resumed playlist
	// it is where the earlier run wrote it.
	Location string
	// Resumed indicates the playlist was skipped because a previous run finished it.
	Resumed bool
}

// ExportSummary reports the outcome of an export.
type ExportSummary struct {
	DryRun bool
	// SavedTracks is the number of saved tracks written, or found on a dry run.
	SavedTracks int
	// SkippedSavedTracks is the number of saved items without a usable track id.
	SkippedSavedTracks int
	// SavedTracksLocation is where the saved tracks were written.
	SavedTracksLocation string
	// Playlists reports each playlist in provider order.
	Playlists []PlaylistSummary
}

// SkippedPlaylistTracks sums the skipped items across playlists.
func (s *ExportSummary) SkippedPlaylistTracks() int {
	total := 0
	for _, p := range s.Playlists {
		total += p.Skipped
	}
	return total
}

// ImportSummary reports the outcome of an import.
type ImportSummary struct {
	DryRun bool
	// UserID is the account the playlists were created under.
	UserID string
	// SavedTracks is the number of saved tracks imported, or that would be.
	SavedTracks int
	// SavedTracksResumed indicates saved tracks were skipped because a previous run finished them.
	SavedTracksResumed bool
	// Playlists reports each dumped playlist in name order.
	Playlists []PlaylistSummary
}

// PurgeSummary reports the outcome of a purge.
type PurgeSummary struct {
	DryRun bool
	// SavedTracks is the number of saved tracks removed, or that would be.
	SavedTracks int
	// Playlists reports each playlist unfollowed, or that would be.
	Playlists []PlaylistSummary
}
