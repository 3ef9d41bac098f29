package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
)

// Ensure Library implements the interface.
var _ driven.LibraryAPI = (*Library)(nil)

// importedDescription is set on every playlist created by an import.
const importedDescription = "Imported playlist"

// Library exposes the user's saved tracks and playlists.
type Library struct {
	client *Client
}

// NewLibrary creates a library backed by client.
func NewLibrary(client *Client) *Library {
	return &Library{client: client}
}

// CurrentUserID returns the id of the token's owner.
func (l *Library) CurrentUserID(ctx context.Context) (string, error) {
	body, err := l.client.Do(ctx, Request{Method: http.MethodGet, URL: l.client.URL("/me")}, domain.ErrPaginationHTTP)
	if err != nil {
		return "", fmt.Errorf("get current user: %w", err)
	}
	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return "", fmt.Errorf("%w: current user has no id", domain.ErrPaginationDecode)
	}
	return id, nil
}

// SavedTracks returns every saved track, newest first.
func (l *Library) SavedTracks(ctx context.Context) ([]domain.TrackItem, error) {
	return FetchAll[domain.TrackItem](ctx, l.client, l.client.URL("/me/tracks?limit=50"))
}

// Playlists returns every playlist the user owns or follows.
// Null entries, which the API returns for some unavailable playlists, are dropped.
func (l *Library) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	all, err := FetchAll[*domain.Playlist](ctx, l.client, l.client.URL("/me/playlists?limit=50"))
	if err != nil {
		return nil, err
	}
	playlists := make([]domain.Playlist, 0, len(all))
	for _, p := range all {
		if p == nil || p.ID == "" {
			continue
		}
		playlists = append(playlists, *p)
	}
	return playlists, nil
}

// PlaylistItems returns every item of a playlist in playlist order.
func (l *Library) PlaylistItems(ctx context.Context, playlistID string) ([]domain.TrackItem, error) {
	path := fmt.Sprintf("/playlists/%s/tracks?limit=100", url.PathEscape(playlistID))
	return FetchAll[domain.TrackItem](ctx, l.client, l.client.URL(path))
}

// SaveTracks adds track ids to the library in chunks of LibraryChunkSize.
func (l *Library) SaveTracks(ctx context.Context, ids []string) (int, error) {
	return l.client.ApplyChunks(ctx, ids, LibraryChunkSize, func(chunk []string) Request {
		return Request{
			Method: http.MethodPut,
			URL:    l.client.URL("/me/tracks"),
			Body:   map[string][]string{"ids": chunk},
		}
	})
}

// RemoveSavedTracks removes track ids from the library in chunks of LibraryChunkSize.
func (l *Library) RemoveSavedTracks(ctx context.Context, ids []string) (int, error) {
	return l.client.ApplyChunks(ctx, ids, LibraryChunkSize, func(chunk []string) Request {
		q := url.Values{"ids": {strings.Join(chunk, ",")}}
		return Request{
			Method: http.MethodDelete,
			URL:    l.client.URL("/me/tracks?" + q.Encode()),
		}
	})
}

// CreatePlaylist creates a private playlist and returns its id.
func (l *Library) CreatePlaylist(ctx context.Context, userID, name string) (string, error) {
	req := Request{
		Method: http.MethodPost,
		URL:    l.client.URL(fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))),
		Body: map[string]any{
			"name":        name,
			"description": importedDescription,
			"public":      false,
		},
	}
	body, err := l.client.Do(ctx, req, domain.ErrBulkMutationHTTP)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return "", fmt.Errorf("%w: created playlist has no id", domain.ErrPaginationDecode)
	}
	return id, nil
}

// AddPlaylistTracks appends tracks to a playlist in chunks of PlaylistChunkSize.
func (l *Library) AddPlaylistTracks(ctx context.Context, playlistID string, ids []string) (int, error) {
	path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return l.client.ApplyChunks(ctx, ids, PlaylistChunkSize, func(chunk []string) Request {
		uris := make([]string, len(chunk))
		for i, id := range chunk {
			uris[i] = domain.TrackURI(id)
		}
		return Request{
			Method: http.MethodPost,
			URL:    l.client.URL(path),
			Body:   map[string][]string{"uris": uris},
		}
	})
}

// UnfollowPlaylist removes a playlist from the user's library.
func (l *Library) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	path := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	_, err := l.client.Do(ctx, Request{Method: http.MethodDelete, URL: l.client.URL(path)}, domain.ErrBulkMutationHTTP)
	return err
}
