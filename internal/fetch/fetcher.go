// Package fetch runs the per-URL pipeline: extract metadata, assemble the
// transcript, and write one record per video.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ytmeta/internal/output"
	"ytmeta/internal/transcript"
	"ytmeta/internal/youtube"
)

// CaptionSource downloads the caption document for a track.
type CaptionSource interface {
	Download(ctx context.Context, track transcript.Track) ([]transcript.Entry, error)
}

// RecordWriter persists one metadata record and returns its path.
type RecordWriter interface {
	Write(rec *output.MetadataRecord, videoID string) (string, error)
}

// Fetcher processes video and playlist URLs one video at a time.
type Fetcher struct {
	Extractor youtube.Extractor
	Captions  CaptionSource
	Writer    RecordWriter

	// Language is the caption language to select (default "en").
	Language string
	// VideoTimeout bounds the fetch of a single video. 0 means no limit.
	VideoTimeout time.Duration

	Log zerolog.Logger
}

// Result is the outcome for one video.
type Result struct {
	URL        string
	VideoID    string
	OutputPath string
	Err        error
}

// Report aggregates the outcomes of one run.
type Report struct {
	// PlaylistTitle is set when the input URL was a playlist.
	PlaylistTitle string
	Results       []Result
}

// Succeeded counts videos that produced an output file.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts videos that produced no output file.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Run processes a video or playlist URL. Playlist members are fetched
// sequentially and fail independently; a member failure never aborts the
// remaining members. The returned error is non-nil only when the run as a
// whole produced nothing: the playlist could not be resolved, or no video
// yielded an output file.
func (f *Fetcher) Run(ctx context.Context, url string) (*Report, error) {
	report := &Report{}

	if youtube.IsPlaylistURL(url) {
		playlist, err := f.Extractor.FetchPlaylist(ctx, url)
		if err != nil {
			return report, fmt.Errorf("resolve playlist: %w", err)
		}
		report.PlaylistTitle = playlist.Title
		f.Log.Info().Str("playlist", playlist.Title).Int("videos", len(playlist.Entries)).
			Msg("processing playlist")

		for _, entry := range playlist.Entries {
			result := f.processVideo(ctx, entry.URL)
			if result.Err != nil {
				f.Log.Warn().Str("url", entry.URL).Err(result.Err).
					Msg("skipping failed playlist entry")
			}
			report.Results = append(report.Results, result)

			if ctx.Err() != nil {
				return report, ctx.Err()
			}
		}
	} else {
		report.Results = append(report.Results, f.processVideo(ctx, url))
	}

	if report.Succeeded() == 0 {
		for _, res := range report.Results {
			if res.Err != nil {
				return report, res.Err
			}
		}
		return report, fmt.Errorf("no videos processed")
	}
	return report, nil
}

// processVideo runs the pipeline for one video: fetch, normalize, assemble,
// write. A missing transcript degrades to an empty field; fetch and write
// failures fail the result.
func (f *Fetcher) processVideo(ctx context.Context, url string) Result {
	result := Result{URL: url}

	if f.VideoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.VideoTimeout)
		defer cancel()
	}

	video, err := f.Extractor.FetchVideo(ctx, url)
	if err != nil {
		result.Err = err
		return result
	}
	result.VideoID = video.ID

	rec := &output.MetadataRecord{
		Title:       transcript.Normalize(video.Title),
		Description: transcript.Normalize(video.Description),
		Transcript:  f.assembleTranscript(ctx, video),
	}

	path, err := f.Writer.Write(rec, video.ID)
	if err != nil {
		result.Err = err
		return result
	}
	result.OutputPath = path

	f.Log.Info().Str("video", video.ID).Str("path", path).Msg("metadata saved")
	return result
}

// assembleTranscript selects and downloads the best caption track. Any
// transcript-stage failure is logged and yields an empty transcript so the
// record still gets written.
func (f *Fetcher) assembleTranscript(ctx context.Context, video *youtube.VideoData) string {
	track, err := transcript.SelectTrack(video.Tracks, f.Language)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) {
			f.Log.Debug().Str("video", video.ID).Msg("no matching caption track")
		}
		return ""
	}

	entries, err := f.Captions.Download(ctx, *track)
	if err != nil {
		f.Log.Warn().Str("video", video.ID).Err(err).Msg("caption download failed")
		return ""
	}

	return transcript.Assemble(entries)
}
