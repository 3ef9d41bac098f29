package domain

import "strings"

// The Web API sometimes returns null or missing nested fields (local files,
// removed tracks, podcast episodes). Optional fields are pointers and every
// accessor documents the default it returns when the field is absent.

// TrackItem is an entry of the saved-tracks collection or of a playlist.
type TrackItem struct {
	AddedAt *string `json:"added_at"`
	Track   *Track  `json:"track"`
}

// Track is the subset of the track object the dumps need.
type Track struct {
	ID      *string  `json:"id"`
	Name    *string  `json:"name"`
	Artists []Artist `json:"artists"`
	Album   *Album   `json:"album"`
}

// Artist is a track artist.
type Artist struct {
	Name *string `json:"name"`
}

// Album is a track album.
type Album struct {
	Name *string `json:"name"`
}

// Playlist is the subset of the simplified playlist object the dumps need.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrackRow is a flattened track as written to and read from a dump.
// Empty fields mean the provider did not return them.
type TrackRow struct {
	AddedAt string
	Name    string
	Artists string
	Album   string
	ID      string
}

// AddedAtOrEmpty returns the added_at timestamp, or "" when absent.
func (i TrackItem) AddedAtOrEmpty() string {
	return deref(i.AddedAt)
}

// TrackID returns the track id, or "" when the track or its id is absent.
func (i TrackItem) TrackID() string {
	if i.Track == nil {
		return ""
	}
	return deref(i.Track.ID)
}

// Row flattens the item. It returns false when the item has no track or the
// track has no id; such items cannot be re-imported and are reported as skipped.
func (i TrackItem) Row() (TrackRow, bool) {
	id := i.TrackID()
	if id == "" {
		return TrackRow{}, false
	}
	return TrackRow{
		AddedAt: i.AddedAtOrEmpty(),
		Name:    i.Track.NameOrEmpty(),
		Artists: strings.Join(i.Track.ArtistNames(), ", "),
		Album:   i.Track.AlbumName(),
		ID:      id,
	}, true
}

// NameOrEmpty returns the track name, or "" when absent.
func (t *Track) NameOrEmpty() string {
	return deref(t.Name)
}

// ArtistNames returns the trimmed, non-empty artist names, or an empty slice.
func (t *Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if name := strings.TrimSpace(deref(a.Name)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// AlbumName returns the album name, or "" when absent.
func (t *Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}
	return deref(t.Album.Name)
}

// TrackURI returns the Web API URI for a track id.
func TrackURI(id string) string {
	return "spotify:track:" + id
}

// RowsFromItems flattens items, preserving order, and counts the skipped ones.
func RowsFromItems(items []TrackItem) ([]TrackRow, int) {
	rows := make([]TrackRow, 0, len(items))
	skipped := 0
	for _, item := range items {
		row, ok := item.Row()
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// RowIDs returns the non-empty ids of rows, preserving order.
func RowIDs(rows []TrackRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id := strings.TrimSpace(r.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
