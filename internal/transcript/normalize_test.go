package transcript

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "already clean",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "collapses whitespace runs",
			input: "hello   world\t\tagain",
			want:  "hello world again",
		},
		{
			name:  "newlines become spaces",
			input: "line one\nline two\r\nline three",
			want:  "line one line two line three",
		},
		{
			name:  "trims ends",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "strips control characters",
			input: "he\x00llo\x07 wor\x1bld",
			want:  "hello world",
		},
		{
			name:  "whitespace only",
			input: " \n\t  ",
			want:  "",
		},
		{
			name:  "control characters only",
			input: "\x00\x01\x02",
			want:  "",
		},
		{
			name:  "unicode preserved",
			input: "café  über",
			want:  "café über",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Normalize output must never contain control characters or
// leading/trailing whitespace, whatever the input.
func TestNormalizeInvariants(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"\x00\x1f\x7f",
		"  mixed \x03 junk \n\n",
		"\ttabs\tand\nnewlines\r",
		strings.Repeat(" a\x01b ", 100),
	}

	for _, input := range inputs {
		got := Normalize(input)
		if got != strings.TrimSpace(got) {
			t.Errorf("Normalize(%q) has leading/trailing whitespace: %q", input, got)
		}
		for _, r := range got {
			if unicode.IsControl(r) {
				t.Errorf("Normalize(%q) contains control character %U", input, r)
			}
		}
	}
}

func TestCleanCaptionText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips inline tags",
			input: "<c>hello</c> <i>world</i>",
			want:  "hello world",
		},
		{
			name:  "strips bracketed artifacts",
			input: "[Music] hello [Applause] world",
			want:  "hello world",
		},
		{
			name:  "unescapes entities",
			input: "Tom &amp; Jerry &#39;live&#39;",
			want:  "Tom & Jerry 'live'",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "artifacts only",
			input: "[Music]",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCaptionText(tt.input)
			if got != tt.want {
				t.Errorf("CleanCaptionText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
