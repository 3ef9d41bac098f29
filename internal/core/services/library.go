package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// Journal unit keys.
const (
	savedTracksKey = "saved_tracks"
	playlistPrefix = "playlist:"
)

// LibraryService runs export, import and purge against an authenticated library.
type LibraryService struct {
	api     driven.LibraryAPI
	dump    driven.DumpStore
	journal driven.Journal
}

// NewLibraryService creates a new library service.
// journal may be nil, in which case --resume has nothing to skip.
func NewLibraryService(api driven.LibraryAPI, dump driven.DumpStore, journal driven.Journal) *LibraryService {
	return &LibraryService{
		api:     api,
		dump:    dump,
		journal: journal,
	}
}

// Export dumps saved tracks and every playlist.
func (s *LibraryService) Export(ctx context.Context, opts driving.RunOptions) (*driving.ExportSummary, error) {
	if err := s.begin(ctx, domain.OperationExport, opts); err != nil {
		return nil, err
	}
	summary := &driving.ExportSummary{DryRun: !opts.Force}

	items, err := s.api.SavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch saved tracks: %w", err)
	}
	rows, skipped := domain.RowsFromItems(items)
	summary.SavedTracks = len(rows)
	summary.SkippedSavedTracks = skipped
	logger.Info("fetched saved tracks", "tracks", len(rows), "skipped", skipped)

	if opts.Force {
		done, err := s.done(ctx, domain.OperationExport, opts, savedTracksKey)
		if err != nil {
			return nil, err
		}
		if !done {
			location, err := s.dump.WriteSavedTracks(ctx, rows)
			if err != nil {
				return nil, fmt.Errorf("write saved tracks: %w", err)
			}
			summary.SavedTracksLocation = location
			if err := s.mark(ctx, domain.OperationExport, savedTracksKey); err != nil {
				return nil, err
			}
		}
	}

	playlists, err := s.api.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch playlists: %w", err)
	}
	logger.Info("fetched playlists", "playlists", len(playlists))

	for _, p := range playlists {
		ps := driving.PlaylistSummary{Name: p.Name}
		key := playlistPrefix + p.ID

		if opts.Force {
			done, err := s.done(ctx, domain.OperationExport, opts, key)
			if err != nil {
				return nil, err
			}
			if done {
				location, err := s.dump.ReservePlaylist(ctx, p.Name)
				if err != nil {
					return nil, fmt.Errorf("reserve playlist %q: %w", p.Name, err)
				}
				ps.Resumed = true
				ps.Location = location
				summary.Playlists = append(summary.Playlists, ps)
				continue
			}
		}

		items, err := s.api.PlaylistItems(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch playlist %q: %w", p.Name, err)
		}
		rows, skipped := domain.RowsFromItems(items)
		ps.Tracks = len(rows)
		ps.Skipped = skipped

		if opts.Force {
			location, err := s.dump.WritePlaylist(ctx, p.Name, rows)
			if err != nil {
				return nil, fmt.Errorf("write playlist %q: %w", p.Name, err)
			}
			ps.Location = location
			if err := s.mark(ctx, domain.OperationExport, key); err != nil {
				return nil, err
			}
			logger.Info("exported playlist", "name", p.Name, "tracks", ps.Tracks, "location", location)
		}
		summary.Playlists = append(summary.Playlists, ps)
	}

	return summary, nil
}

// Import restores saved tracks and recreates every dumped playlist as a
// private playlist owned by the current user.
func (s *LibraryService) Import(ctx context.Context, opts driving.RunOptions) (*driving.ImportSummary, error) {
	if err := s.begin(ctx, domain.OperationImport, opts); err != nil {
		return nil, err
	}
	summary := &driving.ImportSummary{DryRun: !opts.Force}

	saved, err := s.dump.ReadSavedTracks(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("read saved tracks: %w", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("no saved tracks dump found")
	}
	playlists, err := s.dump.ReadPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("read playlists: %w", err)
	}

	userID, err := s.api.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	summary.UserID = userID

	ids := domain.RowIDs(saved)
	summary.SavedTracks = len(ids)
	if opts.Force && len(ids) > 0 {
		done, err := s.done(ctx, domain.OperationImport, opts, savedTracksKey)
		if err != nil {
			return nil, err
		}
		if done {
			summary.SavedTracksResumed = true
		} else {
			applied, err := s.api.SaveTracks(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("save tracks (%d of %d applied): %w", applied, len(ids), err)
			}
			if err := s.mark(ctx, domain.OperationImport, savedTracksKey); err != nil {
				return nil, err
			}
			logger.Info("imported saved tracks", "tracks", applied)
		}
	}

	for _, p := range playlists {
		ids := domain.RowIDs(p.Rows)
		ps := driving.PlaylistSummary{Name: p.Name, Tracks: len(ids), Skipped: len(p.Rows) - len(ids)}
		if !opts.Force {
			summary.Playlists = append(summary.Playlists, ps)
			continue
		}

		key := playlistPrefix + p.Name
		done, err := s.done(ctx, domain.OperationImport, opts, key)
		if err != nil {
			return nil, err
		}
		if done {
			ps.Resumed = true
			summary.Playlists = append(summary.Playlists, ps)
			continue
		}

		playlistID, err := s.api.CreatePlaylist(ctx, userID, p.Name)
		if err != nil {
			return nil, fmt.Errorf("create playlist %q: %w", p.Name, err)
		}
		if len(ids) > 0 {
			applied, err := s.api.AddPlaylistTracks(ctx, playlistID, ids)
			if err != nil {
				return nil, fmt.Errorf("add tracks to playlist %q (%d of %d applied): %w", p.Name, applied, len(ids), err)
			}
		}
		if err := s.mark(ctx, domain.OperationImport, key); err != nil {
			return nil, err
		}
		logger.Info("imported playlist", "name", p.Name, "id", playlistID, "tracks", len(ids))
		summary.Playlists = append(summary.Playlists, ps)
	}

	return summary, nil
}

// Purge removes every saved track and unfollows every playlist.
func (s *LibraryService) Purge(ctx context.Context, opts driving.RunOptions) (*driving.PurgeSummary, error) {
	if err := s.begin(ctx, domain.OperationPurge, opts); err != nil {
		return nil, err
	}
	summary := &driving.PurgeSummary{DryRun: !opts.Force}

	items, err := s.api.SavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch saved tracks: %w", err)
	}
	rows, _ := domain.RowsFromItems(items)
	ids := domain.RowIDs(rows)
	summary.SavedTracks = len(ids)

	if opts.Force && len(ids) > 0 {
		applied, err := s.api.RemoveSavedTracks(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("remove saved tracks (%d of %d applied): %w", applied, len(ids), err)
		}
		logger.Info("removed saved tracks", "tracks", applied)
	}

	playlists, err := s.api.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch playlists: %w", err)
	}

	for _, p := range playlists {
		ps := driving.PlaylistSummary{Name: p.Name}
		if opts.Force {
			key := playlistPrefix + p.ID
			done, err := s.done(ctx, domain.OperationPurge, opts, key)
			if err != nil {
				return nil, err
			}
			if done {
				ps.Resumed = true
				summary.Playlists = append(summary.Playlists, ps)
				continue
			}
			if err := s.api.UnfollowPlaylist(ctx, p.ID); err != nil {
				return nil, fmt.Errorf("unfollow playlist %q: %w", p.Name, err)
			}
			if err := s.mark(ctx, domain.OperationPurge, key); err != nil {
				return nil, err
			}
			logger.Info("unfollowed playlist", "name", p.Name)
		}
		summary.Playlists = append(summary.Playlists, ps)
	}

	return summary, nil
}

// begin resets the operation's journal at the start of a fresh forced run.
// Dry runs never touch the journal.
func (s *LibraryService) begin(ctx context.Context, op domain.Operation, opts driving.RunOptions) error {
	if s.api == nil {
		return domain.ConfigurationError("no library API configured")
	}
	if s.dump == nil && op != domain.OperationPurge {
		return domain.ConfigurationError("no dump store configured")
	}
	if !opts.Force || opts.Resume || s.journal == nil {
		return nil
	}
	if err := s.journal.Reset(ctx, op); err != nil {
		return fmt.Errorf("reset %s journal: %w", op, err)
	}
	return nil
}

func (s *LibraryService) done(ctx context.Context, op domain.Operation, opts driving.RunOptions, key string) (bool, error) {
	if !opts.Resume || s.journal == nil {
		return false, nil
	}
	done, err := s.journal.Done(ctx, op, key)
	if err != nil {
		return false, fmt.Errorf("read %s journal: %w", op, err)
	}
	if done {
		logger.Debug("skipping finished unit", "operation", op.String(), "unit", key)
	}
	return done, nil
}

func (s *LibraryService) mark(ctx context.Context, op domain.Operation, key string) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Mark(ctx, op, key); err != nil {
		return fmt.Errorf("record %s progress: %w", op, err)
	}
	return nil
}
