package youtube

import (
	"context"
	"strings"

	"github.com/kkdai/youtube/v2"

	"ytmeta/internal/retry"
	"ytmeta/internal/transcript"
)

// Client implements Extractor using the kkdai/youtube extraction library.
// The library handles page parsing, player responses, and caption track
// discovery; this wrapper maps its types to ours and classifies errors.
type Client struct {
	yt          youtube.Client
	RetryConfig *retry.Config
}

// NewClient creates a library-backed extractor.
func NewClient() *Client {
	cfg := retry.DefaultConfig()
	return &Client{
		yt:          youtube.Client{},
		RetryConfig: &cfg,
	}
}

// FetchVideo fetches metadata and caption tracks for a video URL or ID.
func (c *Client) FetchVideo(ctx context.Context, urlStr string) (*VideoData, error) {
	var video *youtube.Video

	err := retry.Do(ctx, c.retryConfig(), fetchErrorClassifier, func(ctx context.Context) error {
		v, err := c.yt.GetVideoContext(ctx, urlStr)
		if err != nil {
			return &FetchError{Source: "library", URL: urlStr, Err: classifyLibraryError(err)}
		}
		video = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := &VideoData{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		Tracks:      make([]transcript.Track, 0, len(video.CaptionTracks)),
	}
	for _, ct := range video.CaptionTracks {
		data.Tracks = append(data.Tracks, transcript.Track{
			LanguageCode: ct.LanguageCode,
			Kind:         ct.Kind,
			Name:         ct.Name.SimpleText,
			URL:          ct.BaseURL,
		})
	}
	return data, nil
}

// FetchPlaylist fetches the member videos of a playlist URL.
func (c *Client) FetchPlaylist(ctx context.Context, urlStr string) (*PlaylistData, error) {
	var playlist *youtube.Playlist

	err := retry.Do(ctx, c.retryConfig(), fetchErrorClassifier, func(ctx context.Context) error {
		p, err := c.yt.GetPlaylistContext(ctx, urlStr)
		if err != nil {
			return &FetchError{Source: "library", URL: urlStr, Err: classifyLibraryError(err)}
		}
		playlist = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := &PlaylistData{
		ID:      playlist.ID,
		Title:   playlist.Title,
		Entries: make([]PlaylistEntry, 0, len(playlist.Videos)),
	}
	for _, v := range playlist.Videos {
		if v == nil || v.ID == "" {
			// Deleted or private members come back empty.
			continue
		}
		data.Entries = append(data.Entries, PlaylistEntry{
			ID:    v.ID,
			Title: v.Title,
			URL:   WatchURL(v.ID),
		})
	}
	return data, nil
}

func (c *Client) retryConfig() retry.Config {
	if c.RetryConfig != nil {
		return *c.RetryConfig
	}
	return retry.DefaultConfig()
}

// classifyLibraryError maps extraction library failures onto our sentinel
// errors so callers can use errors.Is. The library reports most conditions
// as formatted strings, so this matches on message content.
func classifyLibraryError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "private"):
		return joinSentinel(ErrVideoNotFound, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return joinSentinel(ErrRateLimited, err)
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return joinSentinel(ErrNetworkTimeout, err)
	default:
		return err
	}
}
