package youtube

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "watch URL",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch URL with extra params",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short URL",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "shorts URL",
			input: "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed URL",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "mobile URL",
			input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare video ID",
			input: "dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:    "unrelated URL",
			input:   "https://example.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "no video ID",
			input:   "https://www.youtube.com/feed/subscriptions",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractVideoID(%q) error = nil, want error", tt.input)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ExtractVideoID(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	got, err := ExtractPlaylistID("https://www.youtube.com/playlist?list=PLtest123")
	if err != nil {
		t.Fatalf("ExtractPlaylistID() error = %v", err)
	}
	if got != "PLtest123" {
		t.Errorf("ExtractPlaylistID() = %q, want %q", got, "PLtest123")
	}

	if _, err := ExtractPlaylistID("https://www.youtube.com/watch?v=dQw4w9WgXcQ"); err == nil {
		t.Error("ExtractPlaylistID(watch URL) = nil, want error")
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://www.youtube.com/playlist?list=PLtest123", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		// A watch URL carrying a list parameter is still a single video.
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLtest123", false},
		{"not a url at all \x7f", false},
	}
	for _, tt := range tests {
		if got := IsPlaylistURL(tt.input); got != tt.want {
			t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWatchURL(t *testing.T) {
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got := WatchURL("dQw4w9WgXcQ"); got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}
