package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
)

// Ensure DumpStore implements the interface.
var _ driven.DumpStore = (*DumpStore)(nil)

// DumpStore is an in-memory implementation of driven.DumpStore.
// Playlists are keyed by name; writing a name twice replaces the first dump.
type DumpStore struct {
	mu          sync.RWMutex
	savedTracks []domain.TrackRow
	hasSaved    bool
	playlists   map[string][]domain.TrackRow
}

// NewDumpStore creates a new in-memory dump store.
func NewDumpStore() *DumpStore {
	return &DumpStore{
		playlists: make(map[string][]domain.TrackRow),
	}
}

// WriteSavedTracks replaces the saved-tracks dump.
func (s *DumpStore) WriteSavedTracks(_ context.Context, rows []domain.TrackRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedTracks = slices.Clone(rows)
	s.hasSaved = true
	return "memory:saved_tracks", nil
}

// WritePlaylist stores one playlist dump.
func (s *DumpStore) WritePlaylist(_ context.Context, name string, rows []domain.TrackRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[name] = slices.Clone(rows)
	return "memory:" + name, nil
}

// ReservePlaylist returns the location name would be stored at.
func (s *DumpStore) ReservePlaylist(_ context.Context, name string) (string, error) {
	return "memory:" + name, nil
}

// ReadSavedTracks returns the saved-tracks dump.
func (s *DumpStore) ReadSavedTracks(_ context.Context) ([]domain.TrackRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSaved {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(s.savedTracks), nil
}

// ReadPlaylists returns every playlist dump ordered by name.
func (s *DumpStore) ReadPlaylists(_ context.Context) ([]driven.PlaylistDump, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]driven.PlaylistDump, 0, len(s.playlists))
	for name, rows := range s.playlists {
		result = append(result, driven.PlaylistDump{Name: name, Rows: slices.Clone(rows)})
	}
	slices.SortFunc(result, func(a, b driven.PlaylistDump) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}
