// Package output serializes metadata records to disk as JSON or plain text.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Format selects the on-disk serialization.
type Format string

const (
	// FormatJSON writes an indented JSON document.
	FormatJSON Format = "json"
	// FormatText writes a fixed Title/Description/Transcript layout.
	FormatText Format = "text"
)

// ErrUnsupportedFormat indicates an unknown output format name.
var ErrUnsupportedFormat = fmt.Errorf("output: unsupported format")

// ParseFormat validates a format name from the CLI.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (use json or text)", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return ".json"
}

// MetadataRecord is the normalized triple produced per video. Key order in
// the JSON output follows field order: title, description, transcript.
type MetadataRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Transcript  string `json:"transcript"`
}

// WriteError wraps a failure to write an output file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer writes one file per record under Dir.
type Writer struct {
	// Dir is the output directory, created on demand.
	Dir string
	// Format selects JSON or text serialization.
	Format Format
}

// NewWriter creates a writer for the given directory and format.
func NewWriter(dir string, format Format) *Writer {
	return &Writer{Dir: dir, Format: format}
}

// Write serializes the record to <dir>/<sanitized-title-or-id><ext> and
// returns the path. The write is atomic: the file appears fully written or
// not at all.
func (w *Writer) Write(rec *MetadataRecord, videoID string) (string, error) {
	name := SanitizeFilename(rec.Title)
	if name == "" {
		name = videoID
	}
	path := filepath.Join(w.Dir, name+w.Format.Ext())

	// Distinct videos can share a title; suffix with the ID so the earlier
	// file is not clobbered.
	if name != videoID && videoID != "" {
		if _, err := os.Stat(path); err == nil {
			name = name + "-" + videoID
			path = filepath.Join(w.Dir, name+w.Format.Ext())
		}
	}

	data, err := w.render(rec)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	aw, err := NewAtomicWriter(path)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if _, err := aw.Write(data); err != nil {
		aw.Abort()
		return "", &WriteError{Path: path, Err: err}
	}
	if err := aw.Commit(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

func (w *Writer) render(rec *MetadataRecord) ([]byte, error) {
	switch w.Format {
	case FormatText:
		return []byte(RenderText(rec)), nil
	default:
		return json.MarshalIndent(rec, "", "    ")
	}
}

// RenderText renders the fixed plain-text layout:
// "Title: ...\nDescription: ...\nTranscript:\n...".
func RenderText(rec *MetadataRecord) string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nTranscript:\n%s",
		rec.Title, rec.Description, rec.Transcript)
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// maxFilenameLen keeps titles well under common filesystem limits.
const maxFilenameLen = 100

// SanitizeFilename replaces characters that are invalid in filenames,
// collapses the result, and caps its length. Returns "" when nothing
// usable remains.
func SanitizeFilename(s string) string {
	s = invalidFilenameChars.ReplaceAllString(s, "_")
	s = strings.TrimSpace(s)
	if len(s) > maxFilenameLen {
		cut := maxFilenameLen
		// Back up so a multibyte rune is never split.
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	s = strings.Trim(s, " .")
	if strings.Trim(s, "_ .") == "" {
		// Nothing but replacement characters left.
		return ""
	}
	return s
}
