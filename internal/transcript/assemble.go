package transcript

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoTranscript indicates no caption track matched the requested language.
var ErrNoTranscript = errors.New("transcript: no matching caption track")

// TrackKindASR marks auto-generated (speech recognition) caption tracks.
const TrackKindASR = "asr"

// Track describes one caption track offered for a video.
type Track struct {
	// LanguageCode is the BCP-47 code, e.g. "en" or "en-US".
	LanguageCode string
	// Kind is empty for manually authored tracks and "asr" for
	// auto-generated ones.
	Kind string
	// Name is the human-readable track label, when known.
	Name string
	// URL is where the caption document can be downloaded.
	URL string
}

// IsAutoGenerated reports whether the track was produced by speech
// recognition rather than authored by a human.
func (t Track) IsAutoGenerated() bool {
	return t.Kind == TrackKindASR
}

// Entry is a single timed caption fragment.
type Entry struct {
	// Start is the fragment start time in seconds.
	Start float64 `json:"start"`
	// Duration is the fragment duration in seconds.
	Duration float64 `json:"duration"`
	// Text is the raw fragment text.
	Text string `json:"text"`
}

// SelectTrack picks the best caption track for the given language.
// Manually authored tracks are preferred over auto-generated ones.
// Language matching is by prefix, so "en" matches "en-US" and "en-GB".
// Returns ErrNoTranscript when no track matches.
func SelectTrack(tracks []Track, lang string) (*Track, error) {
	if lang == "" {
		lang = "en"
	}

	var auto *Track
	for i := range tracks {
		t := &tracks[i]
		if !matchesLanguage(t.LanguageCode, lang) {
			continue
		}
		if !t.IsAutoGenerated() {
			return t, nil
		}
		if auto == nil {
			auto = t
		}
	}
	if auto != nil {
		return auto, nil
	}
	return nil, fmt.Errorf("%w for language %q", ErrNoTranscript, lang)
}

// matchesLanguage reports whether a track language code satisfies the
// requested language. "en" matches "en", "en-US" and "en_GB" style codes.
func matchesLanguage(code, lang string) bool {
	code = strings.ToLower(code)
	lang = strings.ToLower(lang)
	if code == lang {
		return true
	}
	return strings.HasPrefix(code, lang+"-") || strings.HasPrefix(code, lang+"_")
}

// Assemble concatenates caption fragments in timestamp order into a single
// cleaned transcript string. Fragments are joined with single spaces and
// the result is passed through CleanCaptionText, so the output never
// contains control characters or leading/trailing whitespace.
func Assemble(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var b strings.Builder
	for _, e := range sorted {
		if e.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Text)
	}

	return CleanCaptionText(b.String())
}
