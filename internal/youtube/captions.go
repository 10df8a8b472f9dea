package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"ytmeta/internal/httpx"
	"ytmeta/internal/transcript"
)

// CaptionDownloader fetches a caption track's document and parses it into
// timed entries. YouTube serves tracks as timedtext XML, json3, or WebVTT
// depending on the URL; the payload is sniffed rather than trusted.
type CaptionDownloader struct {
	http *httpx.Client
}

// NewCaptionDownloader creates a downloader using the given HTTP client.
// A nil client gets defaults.
func NewCaptionDownloader(client *httpx.Client) *CaptionDownloader {
	if client == nil {
		client = httpx.New(nil)
	}
	return &CaptionDownloader{http: client}
}

// Download fetches and parses the caption document for a track.
func (d *CaptionDownloader) Download(ctx context.Context, track transcript.Track) ([]transcript.Entry, error) {
	if track.URL == "" {
		return nil, &TranscriptError{Err: fmt.Errorf("caption track has no URL")}
	}

	resp, err := d.http.Get(ctx, track.URL)
	if err != nil {
		return nil, &TranscriptError{Err: fmt.Errorf("download captions: %w", err)}
	}

	entries, err := ParseCaptions(resp.Body)
	if err != nil {
		return nil, &TranscriptError{Err: err}
	}
	return entries, nil
}

// ParseCaptions sniffs the document format and parses it into entries.
func ParseCaptions(data []byte) ([]transcript.Entry, error) {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "":
		return nil, nil
	case strings.HasPrefix(trimmed, "{"):
		return parseJSON3(data)
	case strings.HasPrefix(trimmed, "WEBVTT"):
		return parseVTT(trimmed)
	case strings.HasPrefix(trimmed, "<"):
		return parseTimedtextXML(data)
	default:
		return nil, fmt.Errorf("unrecognized caption format")
	}
}

// timedtextDocument is the XML body served by /api/timedtext.
type timedtextDocument struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedtextText `xml:"text"`
}

type timedtextText struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

func parseTimedtextXML(data []byte) ([]transcript.Entry, error) {
	var doc timedtextDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	entries := make([]transcript.Entry, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		if strings.TrimSpace(t.Body) == "" {
			continue
		}
		entries = append(entries, transcript.Entry{
			Start:    t.Start,
			Duration: t.Duration,
			Text:     t.Body,
		})
	}
	return entries, nil
}

// json3Document is YouTube's json3 caption response.
type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64          `json:"tStartMs"`
	DurationMs int64          `json:"dDurationMs"`
	Segs       []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

func parseJSON3(data []byte) ([]transcript.Entry, error) {
	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3 captions: %w", err)
	}

	var entries []transcript.Entry
	for _, event := range doc.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		if strings.TrimSpace(text.String()) == "" {
			continue
		}
		entries = append(entries, transcript.Entry{
			Start:    float64(event.StartMs) / 1000.0,
			Duration: float64(event.DurationMs) / 1000.0,
			Text:     text.String(),
		})
	}
	return entries, nil
}

// parseVTT parses a WebVTT document: a WEBVTT header block, then cues of
// the form "00:00:01.000 --> 00:00:02.500" followed by text lines.
func parseVTT(content string) ([]transcript.Entry, error) {
	var entries []transcript.Entry

	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")

		cueIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				cueIdx = i
				break
			}
		}
		if cueIdx == -1 || cueIdx+1 >= len(lines) {
			continue
		}

		parts := strings.SplitN(lines[cueIdx], "-->", 2)
		start, err := parseVTTTimestamp(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		// Truncated downloads can cut a cue off right after the arrow.
		endFields := strings.Fields(parts[1])
		if len(endFields) == 0 {
			continue
		}
		end, err := parseVTTTimestamp(endFields[0])
		if err != nil {
			continue
		}

		text := strings.Join(lines[cueIdx+1:], " ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, transcript.Entry{
			Start:    start,
			Duration: end - start,
			Text:     text,
		})
	}
	return entries, nil
}

// parseVTTTimestamp parses "HH:MM:SS.mmm" or "MM:SS.mmm" into seconds.
func parseVTTTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid VTT timestamp %q", ts)
	}

	seconds := 0.0
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid VTT timestamp %q", ts)
		}
		seconds = seconds*60 + v
	}
	return seconds, nil
}
