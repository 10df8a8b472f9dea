package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytmeta/internal/transcript"
)

const timedtextBaseURL = "https://www.youtube.com/api/timedtext"

// APIClient implements Extractor using the YouTube Data API v3. It needs an
// API key and consumes quota, but is immune to page-scraping breakage.
// Caption bytes cannot be downloaded with an API key alone, so tracks are
// pointed at the public timedtext endpoint instead.
type APIClient struct {
	service *youtube.Service
}

// NewAPIClient creates a Data API backed extractor.
func NewAPIClient(ctx context.Context, apiKey string) (*APIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APIClient{service: service}, nil
}

// FetchVideo fetches snippet metadata and the caption track inventory.
func (a *APIClient) FetchVideo(ctx context.Context, urlStr string) (*VideoData, error) {
	videoID, err := ExtractVideoID(urlStr)
	if err != nil {
		return nil, &FetchError{Source: "api", URL: urlStr, Err: err}
	}

	videoResp, err := a.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{Source: "api", URL: urlStr, Err: classifyAPIError(err)}
	}
	if len(videoResp.Items) == 0 {
		return nil, &FetchError{Source: "api", URL: urlStr, Err: ErrVideoNotFound}
	}
	snippet := videoResp.Items[0].Snippet

	data := &VideoData{
		ID:          videoID,
		Title:       snippet.Title,
		Description: snippet.Description,
	}

	captionsResp, err := a.service.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		// Caption inventory failures leave the track list empty rather
		// than failing the whole record.
		return data, nil
	}
	for _, c := range captionsResp.Items {
		if c.Snippet == nil {
			continue
		}
		data.Tracks = append(data.Tracks, apiCaptionTrack(videoID, c.Snippet))
	}
	return data, nil
}

// FetchPlaylist pages through PlaylistItems to collect member videos.
func (a *APIClient) FetchPlaylist(ctx context.Context, urlStr string) (*PlaylistData, error) {
	playlistID, err := ExtractPlaylistID(urlStr)
	if err != nil {
		return nil, &FetchError{Source: "api", URL: urlStr, Err: err}
	}

	playlist := &PlaylistData{ID: playlistID}

	// Best effort: a missing title never fails the fetch.
	if resp, err := a.service.Playlists.List([]string{"snippet"}).Id(playlistID).Context(ctx).Do(); err == nil {
		if len(resp.Items) > 0 && resp.Items[0].Snippet != nil {
			playlist.Title = resp.Items[0].Snippet.Title
		}
	}

	pageToken := ""
	for {
		call := a.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(50).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, &FetchError{Source: "api", URL: urlStr, Err: classifyAPIError(err)}
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil {
				continue
			}
			videoID := item.Snippet.ResourceId.VideoId
			if videoID == "" {
				continue
			}
			playlist.Entries = append(playlist.Entries, PlaylistEntry{
				ID:    videoID,
				Title: item.Snippet.Title,
				URL:   WatchURL(videoID),
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(playlist.Entries) == 0 {
		return nil, &FetchError{Source: "api", URL: urlStr, Err: ErrPlaylistNotFound}
	}
	return playlist, nil
}

// apiCaptionTrack maps a Data API caption snippet onto a downloadable
// timedtext track. The API reports trackKind "asr" for auto-generated
// captions, which lines up with the timedtext kind parameter.
func apiCaptionTrack(videoID string, snippet *youtube.CaptionSnippet) transcript.Track {
	kind := ""
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", snippet.Language)
	if snippet.TrackKind == "asr" {
		params.Set("kind", "asr")
		kind = "asr"
	}

	return transcript.Track{
		LanguageCode: snippet.Language,
		Kind:         kind,
		Name:         snippet.Name,
		URL:          timedtextBaseURL + "?" + params.Encode(),
	}
}

// classifyAPIError maps googleapi errors onto sentinel errors.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			return joinSentinel(ErrVideoNotFound, err)
		case 403, 429:
			return joinSentinel(ErrRateLimited, err)
		}
	}
	return err
}
