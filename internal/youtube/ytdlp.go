package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytmeta/internal/retry"
	"ytmeta/internal/transcript"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
)

// YtdlpExtractor implements Extractor by driving yt-dlp as a subprocess.
// It is used when the extraction library is unavailable or blocked.
type YtdlpExtractor struct {
	// Path is the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Timeout is the maximum time to wait for yt-dlp.
	Timeout time.Duration

	// ExtraArgs are appended to every yt-dlp invocation.
	ExtraArgs []string

	// RetryConfig holds retry behavior configuration.
	RetryConfig *retry.Config
}

// NewYtdlpExtractor creates a yt-dlp based extractor.
func NewYtdlpExtractor() *YtdlpExtractor {
	cfg := retry.DefaultConfig()
	return &YtdlpExtractor{
		Path:        defaultYtdlpPath,
		Timeout:     defaultYtdlpTimeout,
		RetryConfig: &cfg,
	}
}

// FetchVideo fetches metadata and caption tracks for one video.
func (y *YtdlpExtractor) FetchVideo(ctx context.Context, urlStr string) (*VideoData, error) {
	if err := y.checkInstalled(ctx); err != nil {
		return nil, err
	}

	args := []string{
		"-J",
		"--no-warnings",
		"--skip-download",
	}

	out, err := y.run(ctx, urlStr, args)
	if err != nil {
		return nil, err
	}

	data, err := parseYtdlpVideo(out)
	if err != nil {
		return nil, &FetchError{Source: "ytdlp", URL: urlStr, Err: err}
	}
	return data, nil
}

// FetchPlaylist fetches member videos of a playlist without resolving each
// one, via yt-dlp's flat playlist mode.
func (y *YtdlpExtractor) FetchPlaylist(ctx context.Context, urlStr string) (*PlaylistData, error) {
	if err := y.checkInstalled(ctx); err != nil {
		return nil, err
	}

	args := []string{
		"--flat-playlist",
		"-J",
		"--no-warnings",
	}

	out, err := y.run(ctx, urlStr, args)
	if err != nil {
		return nil, err
	}

	data, err := parseYtdlpPlaylist(out)
	if err != nil {
		return nil, &FetchError{Source: "ytdlp", URL: urlStr, Err: err}
	}
	return data, nil
}

// run executes yt-dlp with retries, classifying stderr patterns into
// sentinel errors the way transient failures need to be told apart from
// missing videos.
func (y *YtdlpExtractor) run(ctx context.Context, urlStr string, args []string) ([]byte, error) {
	var output []byte

	cfg := y.retryConfig()
	err := retry.Do(ctx, cfg, fetchErrorClassifier, func(ctx context.Context) error {
		full := append(append([]string{}, args...), y.ExtraArgs...)
		full = append(full, urlStr)

		timeout := y.Timeout
		if timeout == 0 {
			timeout = defaultYtdlpTimeout
		}
		cmdCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, y.path(), full...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if cmdCtx.Err() == context.DeadlineExceeded {
				return &FetchError{Source: "ytdlp", URL: urlStr, Err: ErrNetworkTimeout}
			}
			if cmdCtx.Err() == context.Canceled {
				return &FetchError{Source: "ytdlp", URL: urlStr, Err: context.Canceled}
			}

			errMsg := stderr.String()
			switch {
			case strings.Contains(errMsg, "not available") ||
				strings.Contains(errMsg, "does not exist") ||
				strings.Contains(errMsg, "Private video"):
				return &FetchError{Source: "ytdlp", URL: urlStr, Err: ErrVideoNotFound}
			case strings.Contains(errMsg, "429") || strings.Contains(errMsg, "rate"):
				return &FetchError{Source: "ytdlp", URL: urlStr, Err: ErrRateLimited}
			}

			return &FetchError{Source: "ytdlp", URL: urlStr,
				Err: fmt.Errorf("yt-dlp failed: %w: %s", err, errMsg)}
		}

		output = stdout.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// checkInstalled verifies that yt-dlp is available.
func (y *YtdlpExtractor) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, y.path(), "--version")
	if err := cmd.Run(); err != nil {
		return &FetchError{Source: "ytdlp", URL: "", Err: ErrYtdlpNotInstalled}
	}
	return nil
}

func (y *YtdlpExtractor) path() string {
	if y.Path != "" {
		return y.Path
	}
	return defaultYtdlpPath
}

func (y *YtdlpExtractor) retryConfig() retry.Config {
	if y.RetryConfig != nil {
		return *y.RetryConfig
	}
	return retry.DefaultConfig()
}

// ytdlpVideo is yt-dlp's -J output for a single video, reduced to the
// fields this tool needs.
type ytdlpVideo struct {
	ID                string                       `json:"id"`
	Title             string                       `json:"title"`
	Description       string                       `json:"description"`
	Subtitles         map[string][]ytdlpCaptionFmt `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpCaptionFmt `json:"automatic_captions"`
}

// ytdlpCaptionFmt is one downloadable rendition of a caption track.
type ytdlpCaptionFmt struct {
	URL  string `json:"url"`
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

// ytdlpPlaylist is yt-dlp's flat playlist output.
type ytdlpPlaylist struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Entries []ytdlpEntry `json:"entries"`
}

type ytdlpEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// parseYtdlpVideo maps yt-dlp video JSON into VideoData. Manual subtitle
// tracks keep an empty Kind; automatic captions are marked "asr", matching
// the distinction the extraction library makes.
func parseYtdlpVideo(data []byte) (*VideoData, error) {
	var v ytdlpVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	if v.ID == "" {
		return nil, fmt.Errorf("parse yt-dlp output: missing video id")
	}

	video := &VideoData{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
	}
	video.Tracks = append(video.Tracks, captionTracks(v.Subtitles, "")...)
	video.Tracks = append(video.Tracks, captionTracks(v.AutomaticCaptions, transcript.TrackKindASR)...)
	return video, nil
}

// captionTracks flattens a yt-dlp subtitle map into tracks, preferring the
// json3 rendition, then vtt, then whatever comes first.
func captionTracks(m map[string][]ytdlpCaptionFmt, kind string) []transcript.Track {
	var tracks []transcript.Track
	for lang, formats := range m {
		best := pickCaptionFormat(formats)
		if best == nil {
			continue
		}
		tracks = append(tracks, transcript.Track{
			LanguageCode: lang,
			Kind:         kind,
			Name:         best.Name,
			URL:          best.URL,
		})
	}
	return tracks
}

func pickCaptionFormat(formats []ytdlpCaptionFmt) *ytdlpCaptionFmt {
	for _, ext := range []string{"json3", "vtt"} {
		for i := range formats {
			if formats[i].Ext == ext && formats[i].URL != "" {
				return &formats[i]
			}
		}
	}
	for i := range formats {
		if formats[i].URL != "" {
			return &formats[i]
		}
	}
	return nil
}

func parseYtdlpPlaylist(data []byte) (*PlaylistData, error) {
	var p ytdlpPlaylist
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse yt-dlp playlist output: %w", err)
	}

	playlist := &PlaylistData{
		ID:      p.ID,
		Title:   p.Title,
		Entries: make([]PlaylistEntry, 0, len(p.Entries)),
	}
	for _, e := range p.Entries {
		if e.ID == "" {
			// Unavailable videos show up as null/empty entries.
			continue
		}
		url := e.URL
		if url == "" {
			url = WatchURL(e.ID)
		}
		playlist.Entries = append(playlist.Entries, PlaylistEntry{
			ID:    e.ID,
			Title: e.Title,
			URL:   url,
		})
	}
	return playlist, nil
}
