// ABOUTME: Tests for the YouTube playlist adapter
// ABOUTME: Uses a stub API server; covers mock mode and description truncation

package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_MockModeWithoutKey(t *testing.T) {
	c := NewClient("")
	ctx := context.Background()

	details, err := c.GetPlaylistDetails(ctx, "PL123")
	require.NoError(t, err)
	assert.Contains(t, details.Title, "PL123")

	videos, err := c.GetPlaylistVideos(ctx, "PL123")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, int64(1), videos[0].ChapterNo)
	assert.Equal(t, int64(2), videos[1].ChapterNo)
}

func TestClient_FetchesPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists":
			w.Write([]byte(`{"items":[{"snippet":{"title":"Go Course","description":"Learn Go"}}]}`))
		case "/playlistItems":
			w.Write([]byte(`{"items":[
				{"snippet":{"title":"Intro","description":"short","resourceId":{"videoId":"abc"}}},
				{"snippet":{"title":"","description":"","resourceId":{"videoId":"def"}}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient("real-key")
	c.baseURL = srv.URL
	ctx := context.Background()

	details, err := c.GetPlaylistDetails(ctx, "PL123")
	require.NoError(t, err)
	assert.Equal(t, "Go Course", details.Title)
	assert.Equal(t, "Learn Go", details.Description)

	videos, err := c.GetPlaylistVideos(ctx, "PL123")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Intro", videos[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", videos[0].VideoLink)
	assert.Equal(t, "Chapter 2", videos[1].Title, "empty titles get a positional default")
}

func TestClient_EmptyPlaylistIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient("real-key")
	c.baseURL = srv.URL

	_, err := c.GetPlaylistDetails(context.Background(), "PLnope")
	assert.Error(t, err)

	_, err = c.GetPlaylistVideos(context.Background(), "PLnope")
	assert.Error(t, err)
}

func TestTruncateDescription(t *testing.T) {
	short := "a short description"
	assert.Equal(t, short, truncateDescription(short))

	long := strings.Repeat("word ", 50) // 250 chars
	got := truncateDescription(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 153)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), " "), "cut lands on a word boundary")

	unbroken := strings.Repeat("x", 200)
	got = truncateDescription(unbroken)
	assert.Equal(t, strings.Repeat("x", 150)+"...", got)
}
