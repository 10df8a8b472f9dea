// Package youtube wraps the external extraction clients that fetch video
// and playlist metadata, and downloads caption documents.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"ytmeta/internal/transcript"
)

// Sentinel errors for extraction operations.
var (
	ErrVideoNotFound     = errors.New("youtube: video not found")
	ErrPlaylistNotFound  = errors.New("youtube: playlist not found")
	ErrRateLimited       = errors.New("youtube: rate limited")
	ErrNetworkTimeout    = errors.New("youtube: network timeout")
	ErrInvalidURL        = errors.New("youtube: invalid URL")
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
)

// VideoData is the raw metadata an extractor returns for one video.
type VideoData struct {
	// ID is the YouTube video ID (e.g. "dQw4w9WgXcQ").
	ID string
	// Title is the raw video title.
	Title string
	// Description is the raw video description.
	Description string
	// Tracks are the caption tracks offered for the video.
	Tracks []transcript.Track
}

// PlaylistEntry is one member video of a playlist.
type PlaylistEntry struct {
	ID    string
	Title string
	URL   string
}

// PlaylistData is the raw metadata an extractor returns for a playlist.
type PlaylistData struct {
	ID      string
	Title   string
	Entries []PlaylistEntry
}

// Extractor fetches raw video and playlist metadata from YouTube.
// Implementations delegate the heavy lifting (page parsing, signature
// handling) to an external extraction library or tool.
type Extractor interface {
	// FetchVideo returns metadata and caption tracks for a video URL or ID.
	FetchVideo(ctx context.Context, url string) (*VideoData, error)

	// FetchPlaylist returns the member videos of a playlist URL.
	FetchPlaylist(ctx context.Context, url string) (*PlaylistData, error)
}

// FetchError wraps an extraction failure with its source and target URL.
type FetchError struct {
	// Source names the extractor ("library", "ytdlp", "api").
	Source string
	// URL is the video or playlist URL that failed.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s via %s: %v", e.URL, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TranscriptError wraps a caption download or parse failure.
type TranscriptError struct {
	VideoID string
	Err     error
}

func (e *TranscriptError) Error() string {
	return fmt.Sprintf("transcript for %s: %v", e.VideoID, e.Err)
}

func (e *TranscriptError) Unwrap() error {
	return e.Err
}

// joinSentinel attaches one of the sentinel errors to an underlying cause
// so both errors.Is checks and the original message survive.
func joinSentinel(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}

// fetchErrorClassifier reports whether an extraction error is worth
// retrying. Not-found and invalid-URL conditions are permanent.
func fetchErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrPlaylistNotFound) ||
		errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrYtdlpNotInstalled) {
		return false
	}
	return true
}
