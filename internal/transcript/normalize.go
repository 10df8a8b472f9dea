// Package transcript selects caption tracks and assembles caption
// fragments into cleaned transcript text.
package transcript

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	inlineTagRegex = regexp.MustCompile(`<[^>]*>`)
	bracketRegex   = regexp.MustCompile(`\[[^\]]*\]`)
)

// Normalize returns s with control characters removed, runs of whitespace
// collapsed to single spaces, and leading/trailing whitespace trimmed.
// Empty or unusable input yields the empty string, never an error.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		// Whitespace of any kind (newlines, tabs, NBSP) collapses to a
		// single ASCII space.
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		// Drop C0/C1 control characters and other non-printables.
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}

	return strings.TrimSpace(b.String())
}

// CleanCaptionText strips caption markup from raw fragment text before
// normalization: inline tags such as <c> or <i>, bracketed artifacts such
// as [Music] or [Applause], and HTML entities left by the caption encoder.
func CleanCaptionText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = inlineTagRegex.ReplaceAllString(s, "")
	s = bracketRegex.ReplaceAllString(s, "")
	return Normalize(s)
}
