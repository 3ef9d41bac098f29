// Package csv provides a driven.DumpStore that writes one CSV file per
// playlist plus saved_tracks.csv into a dump directory.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DumpStore = (*Store)(nil)

const (
	// SavedTracksName is the file stem of the saved-tracks dump.
	SavedTracksName = "saved_tracks"

	// Extension is the dump file extension.
	Extension = ".csv"

	// Unknown replaces empty fields when writing.
	Unknown = "Unknown"

	idColumn = 4
)

// Header is the first record of every dump file.
var Header = []string{"Added At", "Track Name", "Artists", "Album", "Id"}

// Store reads and writes CSV dumps in a single directory.
type Store struct {
	dir string

	mu   sync.Mutex
	used map[string]struct{}
}

// NewStore creates a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{
		dir:  dir,
		used: map[string]struct{}{SavedTracksName: {}},
	}
}

// WriteSavedTracks replaces saved_tracks.csv.
func (s *Store) WriteSavedTracks(_ context.Context, rows []domain.TrackRow) (string, error) {
	return s.write(SavedTracksName, rows)
}

// WritePlaylist writes <sanitized name>.csv. Names that sanitize to the same
// file within one run get _2, _3 suffixes.
func (s *Store) WritePlaylist(_ context.Context, name string, rows []domain.TrackRow) (string, error) {
	return s.write(s.reserve(SanitizeFilename(name)), rows)
}

// ReservePlaylist claims the file a playlist written by an earlier run
// occupies, keeping the _2, _3 numbering stable across resumed runs.
func (s *Store) ReservePlaylist(_ context.Context, name string) (string, error) {
	return filepath.Join(s.dir, s.reserve(SanitizeFilename(name))+Extension), nil
}

// reserve returns a stem not yet written in this run.
func (s *Store) reserve(stem string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := stem
	for i := 2; ; i++ {
		key := strings.ToLower(candidate)
		if _, taken := s.used[key]; !taken {
			s.used[key] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", stem, i)
	}
}

func (s *Store) write(stem string, rows []domain.TrackRow) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump directory: %w", err)
	}
	path := filepath.Join(s.dir, stem+Extension)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	w := stdcsv.NewWriter(f)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, Header)
	for _, r := range rows {
		records = append(records, []string{
			orUnknown(r.AddedAt),
			orUnknown(r.Name),
			orUnknown(r.Artists),
			orUnknown(r.Album),
			r.ID,
		})
	}
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	logger.Debug("dump written", "path", path, "rows", len(rows))
	return path, nil
}

// ReadSavedTracks reads saved_tracks.csv.
func (s *Store) ReadSavedTracks(_ context.Context) ([]domain.TrackRow, error) {
	rows, err := readFile(filepath.Join(s.dir, SavedTracksName+Extension))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return rows, err
}

// ReadPlaylists reads every CSV except saved_tracks.csv, ordered by file name.
// The file stem is the playlist name.
func (s *Store) ReadPlaylists(_ context.Context) ([]driven.PlaylistDump, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []driven.PlaylistDump{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dump directory: %w", err)
	}

	dumps := make([]driven.PlaylistDump, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), Extension) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if stem == SavedTracksName {
			continue
		}
		rows, err := readFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		dumps = append(dumps, driven.PlaylistDump{Name: stem, Rows: rows})
	}
	return dumps, nil
}

func readFile(path string) ([]domain.TrackRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := stdcsv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []domain.TrackRow
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) <= idColumn {
			logger.Warn("skipping short dump record", "path", path, "line", line)
			continue
		}
		rows = append(rows, domain.TrackRow{
			AddedAt: record[0],
			Name:    record[1],
			Artists: record[2],
			Album:   record[3],
			ID:      strings.TrimSpace(record[idColumn]),
		})
	}
	if rows == nil {
		rows = []domain.TrackRow{}
	}
	return rows, nil
}

func isHeader(record []string) bool {
	if len(record) != len(Header) {
		return false
	}
	for i, h := range Header {
		if !strings.EqualFold(strings.TrimSpace(record[i]), h) {
			return false
		}
	}
	return true
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
