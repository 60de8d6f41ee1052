// ABOUTME: YouTube Data API adapter for importing playlists as journeys
// ABOUTME: Fetches playlist details and items; serves mock data without an API key

// Package youtube fetches playlist metadata used to build a journey
// with one chapter per video. Without a configured API key the client
// returns fixed mock data so the rest of the system stays usable.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxPlaylistItems caps how many videos one import fetches.
const maxPlaylistItems = 50

// PlaylistDetails is a playlist's title and description.
type PlaylistDetails struct {
	Title       string
	Description string
}

// Video is one playlist entry mapped to chapter fields.
type Video struct {
	Title       string
	VideoLink   string
	Description string
	ChapterNo   int64
}

// Client talks to the YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a playlist client. An empty or demo API key puts
// the client in mock mode.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default().With("component", "youtube"),
	}
}

// mockMode reports whether the client serves canned data instead of
// calling the API.
func (c *Client) mockMode() bool {
	return c.apiKey == "" || strings.Contains(c.apiKey, "demo")
}

// GetPlaylistDetails fetches a playlist's title and description.
func (c *Client) GetPlaylistDetails(ctx context.Context, playlistID string) (*PlaylistDetails, error) {
	if c.mockMode() {
		return &PlaylistDetails{
			Title:       fmt.Sprintf("Playlist %s", playlistID),
			Description: fmt.Sprintf("Demo playlist description for %s", playlistID),
		}, nil
	}

	var resp struct {
		Items []struct {
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}

	query := url.Values{"part": {"snippet"}, "id": {playlistID}, "key": {c.apiKey}}
	if err := c.get(ctx, "/playlists", query, &resp); err != nil {
		c.logger.Error("fetching playlist details failed", "playlist", playlistID, "error", err)
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("playlist not found")
	}

	return &PlaylistDetails{
		Title:       resp.Items[0].Snippet.Title,
		Description: resp.Items[0].Snippet.Description,
	}, nil
}

// GetPlaylistVideos fetches up to 50 playlist entries mapped to
// chapter fields, in playlist order.
func (c *Client) GetPlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	if c.mockMode() {
		return []Video{
			{
				Title:       "Introduction to the Course",
				VideoLink:   "https://www.youtube.com/watch?v=Tn6-PIqc4UM",
				Description: "This is the first chapter of the course introducing basic concepts.",
				ChapterNo:   1,
			},
			{
				Title:       "Advanced Topics",
				VideoLink:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Description: "Deep dive into advanced topics and best practices.",
				ChapterNo:   2,
			},
		}, nil
	}

	var resp struct {
		Items []struct {
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				ResourceID  struct {
					VideoID string `json:"videoId"`
				} `json:"resourceId"`
			} `json:"snippet"`
		} `json:"items"`
	}

	query := url.Values{
		"part":       {"snippet"},
		"playlistId": {playlistID},
		"maxResults": {fmt.Sprint(maxPlaylistItems)},
		"key":        {c.apiKey},
	}
	if err := c.get(ctx, "/playlistItems", query, &resp); err != nil {
		c.logger.Error("fetching playlist videos failed", "playlist", playlistID, "error", err)
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("no videos found in playlist")
	}

	videos := make([]Video, 0, len(resp.Items))
	for i, item := range resp.Items {
		title := item.Snippet.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		videos = append(videos, Video{
			Title:       title,
			VideoLink:   "https://www.youtube.com/watch?v=" + item.Snippet.ResourceID.VideoID,
			Description: truncateDescription(item.Snippet.Description),
			ChapterNo:   int64(i + 1),
		})
	}
	return videos, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling youtube api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// truncateDescription shortens long video descriptions to at most 150
// characters, cutting on a word boundary when possible.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= 150 {
		return s
	}

	truncated := string(runes[:150])
	if i := strings.LastIndex(truncated, " "); i > 0 {
		return truncated[:i] + "..."
	}
	return truncated + "..."
}
