package output

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"text", FormatText, false},
		{"Text", FormatText, false},
		{"yaml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) error = nil, want error", tt.input)
			}
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderTextExactLayout(t *testing.T) {
	rec := &MetadataRecord{Title: "T", Description: "D", Transcript: "X"}
	want := "Title: T\nDescription: D\nTranscript:\nX"
	if got := RenderText(rec); got != want {
		t.Errorf("RenderText() = %q, want %q", got, want)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	rec := &MetadataRecord{
		Title:       "Some Video",
		Description: "About things",
		Transcript:  "hello world",
	}

	path, err := w.Write(rec, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var got MetadataRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != *rec {
		t.Errorf("round-trip = %+v, want %+v", got, *rec)
	}
}

func TestWriteJSONKeyOrder(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	path, err := w.Write(&MetadataRecord{Title: "a", Description: "b", Transcript: "c"}, "id")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	s := string(data)
	ti := strings.Index(s, `"title"`)
	di := strings.Index(s, `"description"`)
	xi := strings.Index(s, `"transcript"`)
	if ti == -1 || di == -1 || xi == -1 || !(ti < di && di < xi) {
		t.Errorf("JSON key order = title@%d description@%d transcript@%d, want ascending", ti, di, xi)
	}
}

func TestWriteTextFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatText)

	path, err := w.Write(&MetadataRecord{Title: "T", Description: "D", Transcript: "X"}, "id")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Ext(path) != ".txt" {
		t.Errorf("path = %q, want .txt extension", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "Title: T\nDescription: D\nTranscript:\nX" {
		t.Errorf("file contents = %q", data)
	}
}

func TestWriteFilenameFallsBackToID(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	// A title of only invalid characters sanitizes to nothing.
	path, err := w.Write(&MetadataRecord{Title: "???"}, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "dQw4w9WgXcQ.json" {
		t.Errorf("filename = %q, want video ID fallback", filepath.Base(path))
	}
}

func TestWriteTitleCollisionKeepsBothFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	first, err := w.Write(&MetadataRecord{Title: "Same Title", Description: "one"}, "aaaaaaaaaaa")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	second, err := w.Write(&MetadataRecord{Title: "Same Title", Description: "two"}, "bbbbbbbbbbb")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if first == second {
		t.Fatalf("colliding titles wrote to the same path %q", first)
	}
	if filepath.Base(second) != "Same Title-bbbbbbbbbbb.json" {
		t.Errorf("second path = %q, want ID-suffixed name", filepath.Base(second))
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got MetadataRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Description != "one" {
		t.Errorf("first record Description = %q, want untouched original", got.Description)
	}
}

func TestWriteRepeatedVideoUsesStableName(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	if _, err := w.Write(&MetadataRecord{Title: "Rerun"}, "aaaaaaaaaaa"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	second, err := w.Write(&MetadataRecord{Title: "Rerun"}, "aaaaaaaaaaa")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	third, err := w.Write(&MetadataRecord{Title: "Rerun"}, "aaaaaaaaaaa")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Repeated fetches of the same video settle on one suffixed name
	// rather than growing the directory without bound.
	if second != third {
		t.Errorf("repeat writes produced %q then %q, want a stable path", second, third)
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2", len(files))
	}
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, FormatJSON)

	if _, err := w.Write(&MetadataRecord{Title: "t"}, "id"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestWriteUnwritableDestination(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are ineffective")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	defer os.Chmod(dir, 0o755)

	w := NewWriter(filepath.Join(dir, "out"), FormatJSON)
	_, err := w.Write(&MetadataRecord{Title: "t"}, "id")

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Write() error = %T, want *WriteError", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Plain Title", "Plain Title"},
		{"a/b\\c:d", "a_b_c_d"},
		{"what? really*", "what_ really_"},
		{"  spaced  ", "spaced"},
		{"trailing dots...", "trailing dots"},
		{"???", ""},
		{"", ""},
		{strings.Repeat("x", 200), strings.Repeat("x", 100)},
		// 100 bytes falls mid-rune for two-byte characters; the cut must
		// back up to the rune boundary.
		{strings.Repeat("é", 80), strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeFilenameTruncationKeepsValidUTF8(t *testing.T) {
	inputs := []string{
		strings.Repeat("é", 80),
		strings.Repeat("日本語", 40),
		"ascii prefix " + strings.Repeat("💡", 30),
	}
	for _, input := range inputs {
		got := SanitizeFilename(input)
		if !utf8.ValidString(got) {
			t.Errorf("SanitizeFilename(%q) produced invalid UTF-8 %q", input, got)
		}
		if len(got) > 100 {
			t.Errorf("SanitizeFilename(%q) length = %d bytes, want <= 100", input, len(got))
		}
	}
}
