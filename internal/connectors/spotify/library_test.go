package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeAPI struct {
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()

	if resp, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
		_, _ = w.Write([]byte(resp))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newFakeLibrary(t *testing.T, routes map[string]string) (*Library, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{routes: routes}
	client, _ := newTestClient(t, api.handler)
	return NewLibrary(client), api
}

func TestLibrary_CurrentUserID(t *testing.T) {
	lib, _ := newFakeLibrary(t, map[string]string{"GET /me": `{"id":"user-42","display_name":"Someone"}`})

	id, err := lib.CurrentUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestLibrary_CurrentUserID_Missing(t *testing.T) {
	lib, _ := newFakeLibrary(t, map[string]string{"GET /me": `{}`})

	_, err := lib.CurrentUserID(context.Background())
	assert.ErrorIs(t, err, domain.ErrPaginationDecode)
}

func TestLibrary_SavedTracks_TolerantDecode(t *testing.T) {
	lib, api := newFakeLibrary(t, map[string]string{"GET /me/tracks": `{"items":[
		{"added_at":"2024-01-01T00:00:00Z","track":{"id":"t1","name":"Song","artists":[{"name":"A"},{"name":" "}],"album":{"name":"Alb"}}},
		{"added_at":null,"track":null},
		{"track":{"id":null,"name":"Local file","artists":[],"album":null}}
	],"next":null}`})

	items, err := lib.SavedTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	rows, skipped := domain.RowsFromItems(items)
	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TrackRow{AddedAt: "2024-01-01T00:00:00Z", Name: "Song", Artists: "A", Album: "Alb", ID: "t1"}, rows[0])
	assert.Equal(t, "limit=50", api.calls[0].Query)
}

func TestLibrary_Playlists_DropsNullEntries(t *testing.T) {
	lib, _ := newFakeLibrary(t, map[string]string{"GET /me/playlists": `{"items":[
		{"id":"p1","name":"Road Trip","owner":{"id":"me"}},
		null,
		{"id":"p2","name":"Chill"}
	],"next":null}`})

	playlists, err := lib.Playlists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, domain.Playlist{ID: "p1", Name: "Road Trip"}, playlists[0])
	assert.Equal(t, domain.Playlist{ID: "p2", Name: "Chill"}, playlists[1])
}

func TestLibrary_PlaylistItems(t *testing.T) {
	lib, api := newFakeLibrary(t, map[string]string{"GET /playlists/p1/tracks": `{"items":[{"track":{"id":"t1"}}],"next":null}`})

	items, err := lib.PlaylistItems(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "limit=100", api.calls[0].Query)
}

func TestLibrary_SaveTracks_ChunksOf50(t *testing.T) {
	lib, api := newFakeLibrary(t, nil)

	applied, err := lib.SaveTracks(context.Background(), ids(120))
	require.NoError(t, err)
	assert.Equal(t, 120, applied)

	require.Len(t, api.calls, 3)
	for _, call := range api.calls {
		assert.Equal(t, http.MethodPut, call.Method)
		assert.Equal(t, "/me/tracks", call.Path)
	}
	var body struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.calls[2].Body), &body))
	assert.Len(t, body.IDs, 20)
}

func TestLibrary_RemoveSavedTracks(t *testing.T) {
	lib, api := newFakeLibrary(t, nil)

	applied, err := lib.RemoveSavedTracks(context.Background(), ids(51))
	require.NoError(t, err)
	assert.Equal(t, 51, applied)

	require.Len(t, api.calls, 2)
	assert.Equal(t, http.MethodDelete, api.calls[0].Method)
	assert.Equal(t, "ids="+strings.Join(ids(50), "%2C"), api.calls[0].Query)
	assert.Equal(t, "ids=id050", api.calls[1].Query)
}

func TestLibrary_CreatePlaylist(t *testing.T) {
	lib, api := newFakeLibrary(t, map[string]string{"POST /users/user-1/playlists": `{"id":"new-playlist"}`})

	id, err := lib.CreatePlaylist(context.Background(), "user-1", "Road_Trip")
	require.NoError(t, err)
	assert.Equal(t, "new-playlist", id)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(api.calls[0].Body), &body))
	assert.Equal(t, "Road_Trip", body["name"])
	assert.Equal(t, "Imported playlist", body["description"])
	assert.Equal(t, false, body["public"])
}

func TestLibrary_AddPlaylistTracks_URIsInChunksOf100(t *testing.T) {
	lib, api := newFakeLibrary(t, nil)

	applied, err := lib.AddPlaylistTracks(context.Background(), "p1", ids(250))
	require.NoError(t, err)
	assert.Equal(t, 250, applied)

	require.Len(t, api.calls, 3)
	var body struct {
		URIs []string `json:"uris"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.calls[0].Body), &body))
	assert.Len(t, body.URIs, 100)
	assert.Equal(t, "spotify:track:id000", body.URIs[0])
	assert.Equal(t, "/playlists/p1/tracks", api.calls[0].Path)
}

func TestLibrary_UnfollowPlaylist(t *testing.T) {
	lib, api := newFakeLibrary(t, nil)

	require.NoError(t, lib.UnfollowPlaylist(context.Background(), "p1"))
	require.Len(t, api.calls, 1)
	assert.Equal(t, recordedCall{Method: http.MethodDelete, Path: "/playlists/p1/followers"}, api.calls[0])
}

func TestLibrary_RateLimitedError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	lib := NewLibrary(client)

	err := lib.UnfollowPlaylist(context.Background(), "p1")

	require.Error(t, err)
	assert.True(t, domain.IsRateLimited(err))
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
}
